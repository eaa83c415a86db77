package kg

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Status describes where a document is in the processing pipeline.
// A document's knowledge graph is only present once the status is
// StatusCompleted.
type Status string

const (
	StatusUploading      Status = "uploading"
	StatusUploaded       Status = "uploaded"
	StatusProcessing     Status = "processing"
	StatusPostProcessing Status = "post_processing"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

// Valid reports whether s is one of the known pipeline states.
func (s Status) Valid() bool {
	switch s {
	case StatusUploading, StatusUploaded, StatusProcessing,
		StatusPostProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Properties is an open, insertion-ordered key/value bag attached to nodes
// and relationships. Values are whatever the extraction model produced;
// no schema is enforced because node types are caller-extensible.
type Properties = orderedmap.OrderedMap[string, any]

// Passage is an evidence snippet backing a node or relationship. Passages
// accumulate on merge and are never deduplicated.
type Passage struct {
	Text       string  `json:"text"`
	Page       int     `json:"page,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Node is an entity extracted from a single document. Its ID is unique only
// within the owning document's graph; consolidation never assumes global
// uniqueness. The label, after lowercase+trim normalization, is the identity
// used for duplicate detection and merging.
//
// PaperID, PaperTitle, Papers, X and Y are derived fields populated only in
// the combined in-memory view. They are never persisted standalone.
type Node struct {
	ID             string      `json:"id"`
	Label          string      `json:"label"`
	Type           string      `json:"type,omitempty"`
	Confidence     float64     `json:"confidence,omitempty"`
	SourcePassages []Passage   `json:"source_passages,omitempty"`
	Properties     *Properties `json:"properties,omitempty"`

	PaperID    string   `json:"paper_id,omitempty"`
	PaperTitle string   `json:"paper_title,omitempty"`
	Papers     []string `json:"papers,omitempty"`
	X          float64  `json:"x,omitempty"`
	Y          float64  `json:"y,omitempty"`
}

// Relationship is a directed typed edge between two node IDs of the same
// graph snapshot. PaperID and PaperTitle are combined-view provenance.
type Relationship struct {
	ID             string      `json:"id"`
	SourceID       string      `json:"source_id"`
	TargetID       string      `json:"target_id"`
	Type           string      `json:"type,omitempty"`
	Confidence     float64     `json:"confidence,omitempty"`
	SourcePassages []Passage   `json:"source_passages,omitempty"`
	Properties     *Properties `json:"properties,omitempty"`

	PaperID    string `json:"paper_id,omitempty"`
	PaperTitle string `json:"paper_title,omitempty"`
}

// Graph holds the nodes and relationships extracted from one document.
type Graph struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Page is one page of extracted document text.
type Page struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// ExtractedContent is the structured text pulled out of an uploaded file
// before graph extraction runs over it.
type ExtractedContent struct {
	Title           string   `json:"title,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	FullText        string   `json:"full_text,omitempty"`
	Pages           []Page   `json:"pages,omitempty"`
}

// Document is a research document owned by the document store. It is created
// on upload and mutated through the fixed status sequence as processing
// steps complete, then again whenever a user edits, deletes or merges graph
// nodes.
type Document struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Authors          []string          `json:"authors,omitempty"`
	Abstract         string            `json:"abstract,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
	FileURL          string            `json:"file_url,omitempty"`
	FileName         string            `json:"file_name,omitempty"`
	FileType         string            `json:"file_type,omitempty"`
	FileSize         int64             `json:"file_size,omitempty"`
	Status           Status            `json:"processing_status"`
	Progress         int               `json:"processing_progress,omitempty"`
	Error            string            `json:"processing_error,omitempty"`
	ExtractedContent *ExtractedContent `json:"extracted_content,omitempty"`
	Graph            *Graph            `json:"knowledge_graph,omitempty"`
	CreatedAt        time.Time         `json:"created_date,omitempty"`
	UpdatedAt        time.Time         `json:"updated_date,omitempty"`
}

// HasGraph reports whether the document carries a usable knowledge graph.
func (d *Document) HasGraph() bool {
	return d.Status == StatusCompleted && d.Graph != nil
}
