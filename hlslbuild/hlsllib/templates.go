package hlsllib

import (
	"embed"
	"io/fs"
)

// Template file names.
const (
	TemplateLitPass   = "LitPass.template"
	TemplateDepthPass = "DepthPass.template"
	TemplateMetaPass  = "MetaPass.template"
	// TemplateCommon holds the stage conversion functions shared by every
	// pass. It is spliced with the pass' active fields and exposed to pass
	// templates as the ${CommonFunctions} fragment.
	TemplateCommon = "Common.template"
)

//go:embed templates/*.template
var templates embed.FS

// Templates returns the file system of the built-in pass templates. File
// names are the Template* constants.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err) // Unreachable: the directory is embedded.
	}
	return sub
}
