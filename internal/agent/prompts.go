package agent

import (
	"fmt"
	"strings"

	"github.com/benefitdesk/insurance-assistant/internal/llm"
)

// The prompt texts below are part of the contract with the model
// backend; the assistant's routing behavior is tuned against them.
// Edit with care.

const systemPrompt = `You are a helpful Healthcare Insurance Assistant.
Your job is to help users understand their healthcare insurance plans, coverage, claims, and processes.

You have access to the following tools:
1. query_insurance_plan: Get information about a specific insurance plan
2. query_coverage_for_procedure: Check if a specific medical procedure is covered
3. search_insurance_knowledge_graph: Search the insurance knowledge graph
4. search_insurance_documents: Search for information in insurance documents
5. hybrid_search: Perform a combined search using both graph and vector search

Always be professional, accurate, and helpful. If you don't know the answer, say so clearly.
When providing information about coverage, be clear about what is covered and what is excluded.
`

// toolSelectionTemplate takes the registry's "name: description"
// listing. The model must answer with exactly one fenced JSON block.
const toolSelectionTemplate = "Given the conversation above, decide if you need to use a tool to answer the user's question.\n" +
	"If you need to use a tool, select the most appropriate tool and provide the necessary input.\n" +
	"If you don't need to use a tool, respond directly to the user.\n" +
	"\n" +
	"Available tools:\n" +
	"%s\n" +
	"\n" +
	"To use a tool, respond in the following format:\n" +
	"```json\n" +
	"{\"tool\": \"tool_name\", \"tool_input\": \"input_value\"}\n" +
	"```\n" +
	"\n" +
	"If no tool is needed, respond with:\n" +
	"```json\n" +
	"{\"tool\": null, \"tool_input\": null}\n" +
	"```\n"

const responseInstructions = `Now, provide a comprehensive and helpful response to the user based on the conversation and any tool outputs.
Make sure your response is clear, accurate, and addresses the user's question directly.
If the tool provided useful information, incorporate it into your response.
If the tool didn't provide useful information, do your best to answer based on your general knowledge, but be clear about any limitations.
`

// formatConversation renders the chat history for prompt embedding.
// System messages are carried by the persona header, not the history.
func formatConversation(messages []llm.Message) string {
	var b strings.Builder
	for _, message := range messages {
		switch message.Role {
		case llm.RoleUser:
			fmt.Fprintf(&b, "User: %s\n", message.Content)
		case llm.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n", message.Content)
		}
	}
	return b.String()
}

// buildSelectionPrompt renders the tool-selection prompt for the
// current conversation and tool listing.
func buildSelectionPrompt(messages []llm.Message, toolListing string) string {
	return systemPrompt + "\n\n" +
		formatConversation(messages) + "\n\n" +
		fmt.Sprintf(toolSelectionTemplate, toolListing)
}

// buildResponsePrompt renders the final answer-synthesis prompt.
func buildResponsePrompt(messages []llm.Message) string {
	return systemPrompt + "\n\n" +
		formatConversation(messages) + "\n\n" +
		responseInstructions
}
