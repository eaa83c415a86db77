package ai

// ExtractGraphPrompt asks the model for a knowledge graph over a document.
// Placeholders: document text, node labels, relationship types.
const ExtractGraphPrompt = `
Extract a comprehensive knowledge graph from this document.

Document content: %s

Schema Guidelines:
- Node Labels: %s
- Relationship Types: %s

Extract:
1. Key entities matching the schema node labels
2. Relationships between entities using the defined relationship types
3. Source text passages for each node and relationship

Return a detailed knowledge graph.
`

// ExtractMetadataPrompt asks the model for bibliographic metadata of a
// document. Placeholder: document text.
const ExtractMetadataPrompt = `
Extract the bibliographic metadata of the following research document.
Identify the title, the list of authors, the abstract, up to ten keywords,
the publication year and the journal or venue if stated.

Document content: %s

Leave any field you cannot determine empty rather than guessing.
`

// ChatPrompt asks the model to answer a question over uploaded documents,
// with inline citations. Placeholders: document context, user question.
const ChatPrompt = `
You are a research assistant with access to uploaded documents. Answer the
user's question based on the provided context.

Context from uploaded documents:
%s

User question: %s

Instructions:
1. Provide a comprehensive answer based on the documents
2. Include inline citations in the format [Citation X] where X is a number
3. For each citation, provide the source document title, relevant text snippet, and page number if available
4. Be precise and reference specific information from the documents
`
