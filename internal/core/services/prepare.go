package services

import (
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// PrepareDocuments splits every document into chunks and records where
// each chunk came from. Documents without text contribute nothing;
// an empty source defaults to domain.SourceSalesData.
func PrepareDocuments(docs []domain.Document, chunker driven.Chunker) []domain.Document {
	var out []domain.Document
	for i, doc := range docs {
		source := doc.Source
		if source == "" {
			source = domain.SourceSalesData
		}
		j := 0
		for chunk := range chunker.Split(doc.Text) {
			out = append(out, domain.Document{
				Text:     chunk,
				Source:   source,
				Metadata: domain.ChunkMeta{OriginIndex: i, ChunkIndex: j},
			})
			j++
		}
	}
	return out
}
