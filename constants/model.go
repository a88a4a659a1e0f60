package constants

import "time"

// Model runtime defaults.
const (
	DefaultModelRuntime = "docker"
	DefaultModelImage   = "ai/qwen3:0.6B-Q4_0"
	DefaultModelTimeout = 60 * time.Second
)

// PDF text backends.
const (
	PDFBackendNative    = "native"
	PDFBackendPdftotext = "pdftotext"
)
