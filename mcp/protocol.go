// Package mcp serves the Model Context Protocol over line-delimited JSON-RPC 2.0.
//
// Information Hiding:
// - Wire shapes and error codes hidden behind Server
// - Request validation hidden in parseRequest
// - Response framing (one line per response) hidden

package mcp

import (
	"encoding/json"
	"errors"
)

// Version is the JSON-RPC version carried by every response.
const Version = "2.0"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is a decoded JSON-RPC request. ID is echoed verbatim; a missing
// id echoes as null.
type Request struct {
	JSONRPC string
	ID      json.RawMessage
	Method  string
	Params  json.RawMessage
}

// wireRequest distinguishes absent fields from empty ones.
type wireRequest struct {
	JSONRPC *string         `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  *string         `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// parseRequest decodes one line. jsonrpc and method must both be strings.
func parseRequest(line []byte) (Request, error) {
	var w wireRequest
	if err := json.Unmarshal(line, &w); err != nil {
		return Request{}, err
	}
	if w.JSONRPC == nil {
		return Request{}, errors.New("missing field `jsonrpc`")
	}
	if w.Method == nil {
		return Request{}, errors.New("missing field `method`")
	}
	return Request{
		JSONRPC: *w.JSONRPC,
		ID:      w.ID,
		Method:  *w.Method,
		Params:  w.Params,
	}, nil
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func resultResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: Version, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: Version, ID: id, Error: &RPCError{Code: code, Message: message}}
}

// ServerInfo identifies the server in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    capabilities `json:"capabilities"`
}

type capabilities struct {
	Tools toolsCapability `json:"tools"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ToolInfo describes a tool in the tools/list result.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

type callParams struct {
	Name      string
	Arguments json.RawMessage
}

// parseCallParams extracts name and arguments leniently: a missing or
// non-string name becomes "", missing arguments become null.
func parseCallParams(params json.RawMessage) callParams {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(params, &fields); err != nil {
		return callParams{}
	}

	var p callParams
	if raw, ok := fields["name"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			p.Name = name
		}
	}
	p.Arguments = fields["arguments"]
	return p
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content []textContent `json:"content"`
}
