package domain

// Built-in connector type IDs.
const (
	// ConnectorTypeIQRS crawls the MOEL formal inquiry-response archive (질의회시).
	ConnectorTypeIQRS = "moel_iqrs"

	// ConnectorTypeFastCounsel crawls the MOEL quick consultation board (빠른상담).
	ConnectorTypeFastCounsel = "moel_fastcounsel"

	// ConnectorTypePDF chunks the PDF files of a local directory.
	ConnectorTypePDF = "pdf"
)

// ConnectorType describes a supported connector.
type ConnectorType struct {
	// ID is the unique identifier (e.g. "moel_iqrs").
	ID string
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the connector.
	Description string
	// DefaultCollection is the collection a new source of this type indexes into.
	DefaultCollection string
	// DefaultStopAfterComplete is the early-stop threshold used when the
	// source does not configure one.
	DefaultStopAfterComplete int
	// ConfigKeys lists the configuration fields accepted by this connector.
	ConfigKeys []ConfigKey
}

// ConfigKey describes a configuration field for a connector.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string
	// Label is the human-readable label for UI display.
	Label string
	// Description explains what this field is for.
	Description string
	// Default is the default value for this field.
	Default string
	// Required indicates whether this field must be provided.
	Required bool
}

// Source config keys understood by every connector.
const (
	SourceConfigBaseURL           = "base_url"
	SourceConfigMaxPages          = "max_pages"
	SourceConfigStopAfterComplete = "stop_after_complete"
)

// PDF source config keys.
const (
	SourceConfigPath         = "path"
	SourceConfigChunkSize    = "chunk_size"
	SourceConfigChunkOverlap = "chunk_overlap"
)

var commonConfigKeys = []ConfigKey{
	{Key: SourceConfigBaseURL, Label: "Base URL", Description: "Override the site root (for mirrors and testing)"},
	{Key: SourceConfigMaxPages, Label: "Max pages", Description: "Maximum list pages per sync (0 = unbounded)", Default: "0"},
	{Key: SourceConfigStopAfterComplete, Label: "Stop after complete", Description: "Stop after N consecutive already-complete records (0 = never)"},
}

// BuiltinConnectorTypes returns the connector types shipped with lexbrief.
func BuiltinConnectorTypes() []ConnectorType {
	return []ConnectorType{
		{
			ID:                       ConnectorTypeIQRS,
			Name:                     "MOEL 질의회시",
			Description:              "Formal inquiry responses published by the Ministry of Employment and Labor",
			DefaultCollection:        "iqrs",
			DefaultStopAfterComplete: 0,
			ConfigKeys:               commonConfigKeys,
		},
		{
			ID:                       ConnectorTypeFastCounsel,
			Name:                     "MOEL 빠른상담",
			Description:              "Quick consultation board; records move from pending to answered",
			DefaultCollection:        "moel_fastcounsel",
			DefaultStopAfterComplete: 50,
			ConfigKeys:               commonConfigKeys,
		},
		{
			ID:                ConnectorTypePDF,
			Name:              "PDF 문서",
			Description:       "PDF files in a local directory, split into overlapping text chunks",
			DefaultCollection: "pdf",
			ConfigKeys: []ConfigKey{
				{Key: SourceConfigPath, Label: "Directory", Description: "Directory holding the PDF files", Required: true},
				{Key: SourceConfigChunkSize, Label: "Chunk size", Description: "Characters per chunk", Default: "1000"},
				{Key: SourceConfigChunkOverlap, Label: "Chunk overlap", Description: "Characters shared by neighbouring chunks", Default: "200"},
			},
		},
	}
}

// NeedsConfig reports whether a source of this type cannot run without
// configuration.
func (ct ConnectorType) NeedsConfig() bool {
	for _, k := range ct.ConfigKeys {
		if k.Required {
			return true
		}
	}
	return false
}

// LookupConnectorType returns the built-in connector type with the given ID.
func LookupConnectorType(id string) (ConnectorType, bool) {
	for _, ct := range BuiltinConnectorTypes() {
		if ct.ID == id {
			return ct, true
		}
	}
	return ConnectorType{}, false
}
