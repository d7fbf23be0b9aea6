package fusedsearch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewToolResultJSON creates a new tool result with JSON content
func NewToolResultJSON(data interface{}) (*mcp.CallToolResult, error) {
	buffer := &strings.Builder{}
	encoder := json.NewEncoder(buffer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false) // Don't escape HTML characters like < and >

	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Remove the trailing newline that Encode adds
	jsonString := strings.TrimSuffix(buffer.String(), "\n")
	return mcp.NewToolResultText(jsonString), nil
}
