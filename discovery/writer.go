package discovery

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// ToNode renders the document back into an untyped tree in Discovery
// spelling.
func (d *Document) ToNode() *node.Node {
	if d == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "kind", d.Kind)
	compiler.PutString(m, "discoveryVersion", d.DiscoveryVersion)
	compiler.PutString(m, "id", d.ID)
	compiler.PutString(m, "name", d.Name)
	compiler.PutString(m, "version", d.Version)
	compiler.PutString(m, "revision", d.Revision)
	compiler.PutString(m, "title", d.Title)
	compiler.PutString(m, "description", d.Description)
	if d.Icons != nil {
		im := node.NewMapping()
		compiler.PutString(im, "x16", d.Icons.X16)
		compiler.PutString(im, "x32", d.Icons.X32)
		d.Icons.Extensions.WriteTo(im)
		m.Set("icons", im)
	}
	compiler.PutString(m, "documentationLink", d.DocumentationLink)
	putStrings(m, "labels", d.Labels)
	compiler.PutString(m, "protocol", d.Protocol)
	compiler.PutString(m, "baseUrl", d.BaseURL)
	compiler.PutString(m, "basePath", d.BasePath)
	compiler.PutString(m, "rootUrl", d.RootURL)
	compiler.PutString(m, "servicePath", d.ServicePath)
	compiler.PutString(m, "batchPath", d.BatchPath)
	compiler.PutMapOf(m, "parameters", d.Parameters, (*Schema).ToNode)
	compiler.PutNode(m, "auth", d.Auth.toNode())
	putStrings(m, "features", d.Features)
	compiler.PutMapOf(m, "schemas", d.Schemas, (*Schema).ToNode)
	compiler.PutMapOf(m, "methods", d.Methods, (*Method).toNode)
	compiler.PutMapOf(m, "resources", d.Resources, (*Resource).toNode)
	compiler.PutString(m, "etag", d.Etag)
	compiler.PutString(m, "ownerDomain", d.OwnerDomain)
	compiler.PutString(m, "ownerName", d.OwnerName)
	compiler.PutBool(m, "version_module", d.VersionModule)
	compiler.PutString(m, "canonicalName", d.CanonicalName)
	compiler.PutBool(m, "fullyEncodeReservedExpansion", d.FullyEncodeReservedExpansion)
	compiler.PutString(m, "packagePath", d.PackagePath)
	compiler.PutString(m, "mtlsRootUrl", d.MTLSRootURL)
	d.Extensions.WriteTo(m)
	return m
}

func putStrings(m *node.Node, key string, v []string) {
	if v != nil {
		m.Set(key, node.NewStrings(v))
	}
}

// ToNode renders the schema in Discovery spelling. Numeric bounds are
// written back as strings.
func (s *Schema) ToNode() *node.Node {
	if s == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "id", s.ID)
	compiler.PutString(m, "type", string(s.Type))
	compiler.PutString(m, "$ref", s.Ref)
	compiler.PutString(m, "description", s.Description)
	compiler.PutString(m, "default", s.Default)
	compiler.PutBool(m, "required", s.Required)
	compiler.PutString(m, "format", s.Format)
	compiler.PutString(m, "pattern", s.Pattern)
	compiler.PutString(m, "minimum", s.Minimum)
	compiler.PutString(m, "maximum", s.Maximum)
	putStrings(m, "enum", s.Enum)
	putStrings(m, "enumDescriptions", s.EnumDescriptions)
	compiler.PutBool(m, "repeated", s.Repeated)
	compiler.PutString(m, "location", s.Location)
	compiler.PutMapOf(m, "properties", s.Properties, (*Schema).ToNode)
	compiler.PutNode(m, "additionalProperties", s.AdditionalProperties.ToNode())
	compiler.PutNode(m, "items", s.Items.ToNode())
	if s.Annotations != nil {
		am := node.NewMapping()
		putStrings(am, "required", s.Annotations.Required)
		s.Annotations.Extensions.WriteTo(am)
		m.Set("annotations", am)
	}
	compiler.PutBool(m, "readOnly", s.ReadOnly)
	compiler.PutBool(m, "deprecated", s.Deprecated)
	s.Extensions.WriteTo(m)
	return m
}

func (a *Auth) toNode() *node.Node {
	if a == nil {
		return nil
	}
	m := node.NewMapping()
	if o := a.OAuth2; o != nil {
		om := node.NewMapping()
		compiler.PutMapOf(om, "scopes", o.Scopes, func(s *Scope) *node.Node {
			sm := node.NewMapping()
			compiler.PutString(sm, "description", s.Description)
			s.Extensions.WriteTo(sm)
			return sm
		})
		o.Extensions.WriteTo(om)
		m.Set("oauth2", om)
	}
	a.Extensions.WriteTo(m)
	return m
}

func (r *Resource) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutMapOf(m, "methods", r.Methods, (*Method).toNode)
	compiler.PutMapOf(m, "resources", r.Resources, (*Resource).toNode)
	compiler.PutBool(m, "deprecated", r.Deprecated)
	r.Extensions.WriteTo(m)
	return m
}

func (md *Method) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "id", md.ID)
	compiler.PutString(m, "path", md.Path)
	compiler.PutString(m, "httpMethod", md.HTTPMethod)
	compiler.PutString(m, "description", md.Description)
	compiler.PutMapOf(m, "parameters", md.Parameters, (*Schema).ToNode)
	putStrings(m, "parameterOrder", md.ParameterOrder)
	if r := md.Request; r != nil {
		rm := node.NewMapping()
		compiler.PutString(rm, "$ref", r.Ref)
		compiler.PutString(rm, "parameterName", r.ParameterName)
		r.Extensions.WriteTo(rm)
		m.Set("request", rm)
	}
	if r := md.Response; r != nil {
		rm := node.NewMapping()
		compiler.PutString(rm, "$ref", r.Ref)
		r.Extensions.WriteTo(rm)
		m.Set("response", rm)
	}
	putStrings(m, "scopes", md.Scopes)
	compiler.PutBool(m, "supportsMediaDownload", md.SupportsMediaDownload)
	compiler.PutBool(m, "supportsMediaUpload", md.SupportsMediaUpload)
	compiler.PutBool(m, "useMediaDownloadService", md.UseMediaDownloadService)
	compiler.PutNode(m, "mediaUpload", md.MediaUpload.toNode())
	compiler.PutBool(m, "supportsSubscription", md.SupportsSubscription)
	compiler.PutString(m, "flatPath", md.FlatPath)
	compiler.PutBool(m, "etagRequired", md.EtagRequired)
	compiler.PutString(m, "streamingType", md.StreamingType)
	compiler.PutString(m, "apiVersion", md.APIVersion)
	compiler.PutBool(m, "deprecated", md.Deprecated)
	md.Extensions.WriteTo(m)
	return m
}

func (u *MediaUpload) toNode() *node.Node {
	if u == nil {
		return nil
	}
	m := node.NewMapping()
	putStrings(m, "accept", u.Accept)
	compiler.PutString(m, "maxSize", u.MaxSize)
	if p := u.Protocols; p != nil {
		pm := node.NewMapping()
		if s := p.Simple; s != nil {
			compiler.PutNode(pm, "simple", protocolNode(s.Multipart, s.Path, s.Extensions))
		}
		if r := p.Resumable; r != nil {
			compiler.PutNode(pm, "resumable", protocolNode(r.Multipart, r.Path, r.Extensions))
		}
		p.Extensions.WriteTo(pm)
		m.Set("protocols", pm)
	}
	compiler.PutBool(m, "supportsSubscription", u.SupportsSubscription)
	u.Extensions.WriteTo(m)
	return m
}

func protocolNode(multipart bool, path string, exts compiler.Extensions) *node.Node {
	m := node.NewMapping()
	compiler.PutBool(m, "multipart", multipart)
	compiler.PutString(m, "path", path)
	exts.WriteTo(m)
	return m
}
