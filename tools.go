//go:build tools
// +build tools

// Package tools pins the code generators invoked by go generate so that
// go.mod tracks them.
package workspace_chat

import (
	_ "go.uber.org/mock/mockgen"
)
