// Local Map Tool - bounded directory listing.

package tools

import (
	"context"
	"encoding/json"

	"github.com/richinex/multimodel/fsmap"
)

// LocalMapTool maps a directory tree under the workspace root.
type LocalMapTool struct {
	enumerator *fsmap.Enumerator
}

// NewLocalMapTool creates a new local_map tool.
func NewLocalMapTool(enumerator *fsmap.Enumerator) *LocalMapTool {
	return &LocalMapTool{enumerator: enumerator}
}

// Metadata returns the tool metadata.
func (t *LocalMapTool) Metadata() ToolMetadata {
	minDepth, maxDepth := 0, fsmap.MaxDepth
	return ToolMetadata{
		Name:        "local_map",
		Description: "Map a local directory tree (bounded breadth-first scan)",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Directory to scan, relative to the workspace root", Default: "."},
			{
				Name:        "depth",
				ParamType:   "integer",
				Description: "Maximum directory depth to descend",
				Default:     fsmap.DefaultDepth,
				Minimum:     &minDepth,
				Maximum:     &maxDepth,
			},
			{Name: "follow_symlinks", ParamType: "boolean", Description: "Descend into symlinked directories", Default: false},
		},
	}
}

type localMapArgs struct {
	Path           *string `json:"path"`
	Depth          *int    `json:"depth"`
	FollowSymlinks bool    `json:"follow_symlinks"`
}

func (a localMapArgs) request() fsmap.Request {
	req := fsmap.Request{
		Path:           valueOr(a.Path, "."),
		Depth:          fsmap.DefaultDepth,
		FollowSymlinks: a.FollowSymlinks,
	}
	if a.Depth != nil {
		req.Depth = *a.Depth
	}
	return req
}

// Validate validates the arguments.
func (t *LocalMapTool) Validate(args json.RawMessage) error {
	var a localMapArgs
	return decodeArgs(args, &a)
}

// Execute runs the scan. Depth, missing path and workspace violations are
// returned as errors.
func (t *LocalMapTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a localMapArgs
	if err := decodeArgs(args, &a); err != nil {
		return ToolResult{}, err
	}

	result, err := t.enumerator.Map(a.request())
	if err != nil {
		return ToolResult{}, err
	}
	return SuccessResult(result), nil
}
