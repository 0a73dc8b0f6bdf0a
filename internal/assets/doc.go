// Package assets provides the CSS styles and HTML templates used to print
// generated resumes.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is what the resume generator uses. A custom directory may
// override a single style or the page template while the rest falls back to
// the embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # e.g. modern.css
//	└── templates/
//	    └── {name}.html      # e.g. resume.html
//
// A page template is an html/template receiving Title, Lang, Style and Body.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
