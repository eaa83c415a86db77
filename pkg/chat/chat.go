package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// Citation points an answer back at one of the documents that grounded it.
// Index is the 1-based citation number as it appears in the answer text.
type Citation struct {
	Index      int    `json:"index"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	FileURL    string `json:"file_url,omitempty"`
}

// Message is a single turn of a chat session.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_date,omitempty"`
}

// Answer is a generated reply with its supporting citations resolved.
type Answer struct {
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
}

// Service answers questions about a set of processed documents, grounding
// every reply in the documents' metadata and extracted knowledge graphs.
type Service struct {
	ai ai.Client
}

func New(client ai.Client) *Service {
	return &Service{ai: client}
}

// answerFormat is the schema the model must fill. Citations are the 1-based
// indices of the context documents the answer drew from.
type answerFormat struct {
	Answer    string `json:"answer" jsonschema_description:"The answer to the question, referencing sources as [Citation N]"`
	Citations []int  `json:"citations" jsonschema_description:"1-based indices of the cited documents"`
}

// Ask answers question over the given documents. Documents without a
// completed knowledge graph contribute nothing and are skipped. History is
// replayed so follow-up questions keep their context.
func (s *Service) Ask(
	ctx context.Context,
	docs []kg.Document,
	history []Message,
	question string,
) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &kg.ValidationError{Op: "chat", Reason: "question must not be empty"}
	}

	contextText, cited := buildContext(docs)
	if len(cited) == 0 {
		return &Answer{
			Content: "I don't have any processed documents to answer from yet. Upload a document and let processing finish first.",
		}, nil
	}

	messages := make([]ai.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, ai.ChatMessage{Message: m.Content, Role: m.Role})
	}
	messages = append(messages, ai.ChatMessage{
		Message: fmt.Sprintf(ai.ChatPrompt, contextText, question),
		Role:    "user",
	})

	// single-turn structured call carrying the history inline; chat-style
	// streaming is not needed for citation resolution
	prompt := flattenMessages(messages)

	var out answerFormat
	err := s.ai.GenerateCompletionWithFormat(
		ctx,
		"document_answer",
		"An answer grounded in the provided research documents with citations",
		prompt,
		&out,
		ai.WithTemperature(0.3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	answer := &Answer{Content: out.Answer}
	for _, idx := range out.Citations {
		if idx < 1 || idx > len(cited) {
			logger.Warn("[Chat] Model cited unknown document", "index", idx)
			continue
		}
		answer.Citations = append(answer.Citations, cited[idx-1])
	}

	return answer, nil
}

// buildContext renders every completed document into a numbered context
// block and returns the citation slots in the same order.
func buildContext(docs []kg.Document) (string, []Citation) {
	var sb strings.Builder
	var cited []Citation

	for i := range docs {
		doc := &docs[i]
		if !doc.HasGraph() {
			continue
		}

		n := len(cited) + 1
		cited = append(cited, Citation{
			Index:      n,
			DocumentID: doc.ID,
			Title:      doc.Title,
			FileURL:    doc.FileURL,
		})

		fmt.Fprintf(&sb, "[Document %d] %s\n", n, doc.Title)
		if len(doc.Authors) > 0 {
			fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(doc.Authors, ", "))
		}
		if doc.Abstract != "" {
			fmt.Fprintf(&sb, "Abstract: %s\n", doc.Abstract)
		}

		if concepts := keyConcepts(doc.Graph, 25); len(concepts) > 0 {
			fmt.Fprintf(&sb, "Key concepts: %s\n", strings.Join(concepts, "; "))
		}
		if findings := keyFindings(doc.Graph, 15); len(findings) > 0 {
			fmt.Fprintf(&sb, "Key findings:\n")
			for _, f := range findings {
				fmt.Fprintf(&sb, "- %s\n", f)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), cited
}

// keyConcepts lists up to limit node labels with their types.
func keyConcepts(g *kg.Graph, limit int) []string {
	out := make([]string, 0, min(limit, len(g.Nodes)))
	for _, n := range g.Nodes {
		if len(out) >= limit {
			break
		}
		if n.Label == "" {
			continue
		}
		if n.Type != "" {
			out = append(out, fmt.Sprintf("%s (%s)", n.Label, n.Type))
		} else {
			out = append(out, n.Label)
		}
	}
	return out
}

// keyFindings renders up to limit relationships as subject-predicate-object
// sentences, resolving node IDs to labels.
func keyFindings(g *kg.Graph, limit int) []string {
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
	}

	out := make([]string, 0, min(limit, len(g.Relationships)))
	for _, r := range g.Relationships {
		if len(out) >= limit {
			break
		}
		src, tgt := labels[r.SourceID], labels[r.TargetID]
		if src == "" || tgt == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s %s %s", src, relationPhrase(r.Type), tgt))
	}
	return out
}

func relationPhrase(relType string) string {
	if relType == "" {
		return "relates to"
	}
	return strings.ReplaceAll(strings.ToLower(relType), "_", " ")
}

func flattenMessages(messages []ai.ChatMessage) string {
	if len(messages) == 1 {
		return messages[0].Message
	}
	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, m := range messages[:len(messages)-1] {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Message)
	}
	sb.WriteString("\n")
	sb.WriteString(messages[len(messages)-1].Message)
	return sb.String()
}
