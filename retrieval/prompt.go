package retrieval

import (
	"fmt"
	"strings"

	"github.com/knowhaven/knowhaven/core"
)

// maxContextResults limits how many results of each kind are folded into
// the synthesis prompt.
const maxContextResults = 3

const (
	apologyAnswer   = "Sorry, something went wrong while answering your question. Please try again."
	noContextAnswer = "Sorry, I could not find anything relevant to your question in the knowledge base."
)

// buildContext renders the top local and web results into the context block
// handed to the synthesizer. Returns the empty string when there is nothing
// to cite.
func buildContext(local []*core.SearchResult, web []WebResult) string {
	var b strings.Builder

	if len(local) > 0 {
		b.WriteString("Knowledge base results:\n")
		for i, result := range local {
			if i == maxContextResults {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, result.Document.Title)
			if summary := result.Document.Summary; summary != "" {
				fmt.Fprintf(&b, "   Summary: %s\n", summary)
			} else if body := result.Document.Body; body != "" {
				fmt.Fprintf(&b, "   Content: %s\n", truncate(body, 500))
			}
			fmt.Fprintf(&b, "   Similarity: %.2f\n\n", result.Score)
		}
	}

	if len(web) > 0 {
		b.WriteString("Web search results:\n")
		for i, result := range web {
			if i == maxContextResults {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, result.Title)
			fmt.Fprintf(&b, "   Snippet: %s\n", result.Snippet)
			fmt.Fprintf(&b, "   Source: %s\n\n", result.Source)
		}
	}

	return b.String()
}

// buildPrompt wraps the question and context into the synthesis prompt.
func buildPrompt(question, context string) string {
	return fmt.Sprintf(
		"Answer the question using the context below.\n\n"+
			"Context:\n%s\n"+
			"Question: %s\n\n"+
			"Provide an accurate, useful answer grounded in the context. "+
			"If the context contains no relevant information, say so.",
		context, question)
}

// templateAnswer is the degraded answer used when the synthesizer is
// unavailable: it lists the gathered material verbatim.
func templateAnswer(local []*core.SearchResult, web []WebResult) string {
	if len(local) == 0 && len(web) == 0 {
		return noContextAnswer
	}

	var b strings.Builder
	b.WriteString("Here is the most relevant material found for your question:\n\n")

	n := 0
	for _, result := range local {
		if n == maxContextResults {
			break
		}
		n++
		fmt.Fprintf(&b, "%d. %s", n, result.Document.Title)
		if summary := result.Document.Summary; summary != "" {
			fmt.Fprintf(&b, " - %s", truncate(summary, 200))
		}
		b.WriteString("\n")
	}
	for i, result := range web {
		if i == maxContextResults {
			break
		}
		n++
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n", n, result.Title, truncate(result.Snippet, 200), result.Source)
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
