package constants

// Default collection layout. Overridable through common.Config.
const (
	InputFilename  = "challenge1b_input.json"
	OutputFilename = "challenge1b_output.json"
	PDFDir         = "PDFs"
)

// DefaultCollections is the ordered list of collection directories processed when
// COLLECTIONS is unset.
var DefaultCollections = []string{"Collection 1", "Collection 2", "Collection 3"}

// XLSXExt is appended to the report basename for spreadsheet exports.
const XLSXExt = ".xlsx"
