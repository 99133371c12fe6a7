package domain

// Document sources produced by the exporters.
const (
	// SourceSalesData tags placeholder and plain sales documents.
	SourceSalesData = "SalesData"

	// SourceMonthlyGraph tags the 30-day analyst report.
	SourceMonthlyGraph = "MonthlyGraph"

	// SourceYearlyGraph tags the 12-month overview.
	SourceYearlyGraph = "YearlyGraph"

	// SourceLiveDatabase tags catalog documents.
	SourceLiveDatabase = "LiveDatabase"
)

// Document is a piece of tenant text.
// Exporters produce whole documents; after chunking each stored document
// is one chunk and Metadata records where it came from.
type Document struct {
	// Text is the document body.
	Text string `json:"text"`

	// Source names the exporter view that produced the text.
	Source string `json:"source"`

	// Metadata locates a chunk within the exported document list.
	Metadata ChunkMeta `json:"metadata"`
}

// ChunkMeta locates a chunk within its originating document.
type ChunkMeta struct {
	// OriginIndex is the position of the source document in the export.
	OriginIndex int `json:"orig_index"`

	// ChunkIndex is the position of the chunk within that document.
	ChunkIndex int `json:"chunk_index"`
}
