package main

// GlobalFlags holds persistent flags shared by all commands
type GlobalFlags struct {
	ConfigPath string // path to TOML config file (optional)
}

// ExportFlags holds flags for the export command
type ExportFlags struct {
	Input        string // documents file (JSON lines); empty means stdin
	Directory    string
	FilePrefix   string
	UniquePrefix bool // generate a UUID- prefix instead of FilePrefix
	Flush        bool
	CatalogDSN   string
}

// DumpFlags holds flags for the dump command
type DumpFlags struct {
	File string
}

// CatalogFlags holds flags for catalog subcommands
type CatalogFlags struct {
	DSN    string
	RunUID string
}
