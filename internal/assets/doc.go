// Package assets provides the document style sheets and the editor page.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the editor and the export command. It
// tries the custom FilesystemLoader first and falls back to EmbeddedLoader
// when the asset is not found, so a directory may override a single style.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # document style for preview and exports
//	└── templates/
//	    └── {name}.html      # html/template page (editor.html)
//
// The editor's static script and stylesheet are always embedded and served
// from Web().
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
