package imports

import (
	// Tool packages register themselves with the registry on import
	_ "github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch/unified"
)
