// Package mcp exposes the back-office operations as Model Context Protocol
// tools served over stdio.
package mcp
