// Package mcp exposes the ledger as an MCP server over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/partyledger/internal/dice"
	"github.com/louisbranch/partyledger/internal/ledger/service"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Party Ledger MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// CommandInput is the MCP tool input for a ledger command.
type CommandInput struct {
	CampaignID int64  `json:"campaign_id" jsonschema:"campaign identifier, typically the chat channel id"`
	ActorID    int64  `json:"actor_id" jsonschema:"identity issuing the command"`
	Command    string `json:"command" jsonschema:"command text, verb first (e.g. 'transact give 2 gp to Bob')"`
}

// CommandResult is the MCP tool output for a ledger command.
type CommandResult struct {
	Message string `json:"message" jsonschema:"user-facing reply"`
}

// RollInput is the MCP tool input for a dice roll.
type RollInput struct {
	Notation string `json:"notation" jsonschema:"dice notation (e.g. 'd20', '4d8+3')"`
}

// RollResult is the MCP tool output for a dice roll.
type RollResult struct {
	Rolls        []int `json:"rolls" jsonschema:"individual die results"`
	Total        int   `json:"total" jsonschema:"sum of rolls plus offset"`
	Approximated bool  `json:"approximated,omitempty" jsonschema:"whether the pool sum was approximated"`
}

// Server hosts the MCP server.
type Server struct {
	server *mcp.Server
}

// New creates a configured MCP server backed by the command service.
func New(svc *service.Service) *Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, commandTool(), commandHandler(svc))
	mcp.AddTool(server, rollTool(), rollHandler(svc))
	return &Server{server: server}
}

// Run serves MCP requests on stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("MCP server is not configured")
	}
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func commandTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "ledger_command",
		Description: "Executes a party ledger command (initialize, register, " +
			"transact, convert, pending, approve, deny, balance, addgm, roll, delete) " +
			"scoped to a campaign and an acting identity",
	}
}

func commandHandler(svc *service.Service) mcp.ToolHandlerFor[CommandInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, CommandResult, error) {
		if input.CampaignID == 0 {
			return nil, CommandResult{}, errors.New("campaign_id is required")
		}
		if input.ActorID == 0 {
			return nil, CommandResult{}, errors.New("actor_id is required")
		}
		message := svc.Execute(ctx, service.Request{
			CampaignID: input.CampaignID,
			ActorID:    input.ActorID,
			Command:    input.Command,
		})
		return nil, CommandResult{Message: message}, nil
	}
}

func rollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls dice in classic notation and returns the results",
	}
}

func rollHandler(svc *service.Service) mcp.ToolHandlerFor[RollInput, RollResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, RollResult, error) {
		_, result, err := svc.Roll(input.Notation)
		if errors.Is(err, dice.ErrInvalidNotation) {
			return nil, RollResult{}, fmt.Errorf("invalid notation %q", input.Notation)
		}
		if err != nil {
			return nil, RollResult{}, err
		}
		return nil, RollResult{
			Rolls:        result.Rolls,
			Total:        result.Total,
			Approximated: result.Approximated,
		}, nil
	}
}
