package queue

// ProcessDocumentMsg asks the worker to run the extraction pipeline over an
// uploaded document.
type ProcessDocumentMsg struct {
	DocumentID   string `json:"document_id"`
	FileKey      string `json:"file_key"`
	FileName     string `json:"file_name"`
	SchemaPreset string `json:"schema_preset,omitempty"`
	Model        string `json:"model,omitempty"`
}

// DeleteDocumentMsg asks the worker to remove a document's stored file
// after the record itself is gone.
type DeleteDocumentMsg struct {
	DocumentID string `json:"document_id"`
	FileKey    string `json:"file_key"`
}
