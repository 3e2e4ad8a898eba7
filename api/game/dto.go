// Package gameapi provides structures and utilities for the game endpoints.
package gameapi

import (
	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
)

// JoinRequest asks the lobby for a seat.
type JoinRequest struct {
	Mode     string `json:"mode" binding:"required"`
	GameType string `json:"game_type" binding:"required"`
}

// CellDTO is a grid coordinate on the wire.
type CellDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c CellDTO) toDomain() dmn.Cell {
	return dmn.Cell{Row: c.Row, Col: c.Col}
}

// WallDTO is one active wall in a maze submission.
type WallDTO struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation" binding:"required"`
}

// MazeRequest is a player's authored maze.
type MazeRequest struct {
	Start CellDTO   `json:"start"`
	Goal  CellDTO   `json:"goal"`
	Walls []WallDTO `json:"walls" binding:"required"`
}

// ToDomain converts the submission to a domain maze. Validation happens in
// the rules engine, not here.
func (m MazeRequest) ToDomain() *dmn.Maze {
	walls := make([]dmn.Wall, 0, len(m.Walls))
	for _, w := range m.Walls {
		walls = append(walls, dmn.Wall{
			Row:         w.Row,
			Col:         w.Col,
			Orientation: dmn.Orientation(w.Orientation),
		})
	}
	return &dmn.Maze{
		Start: m.Start.toDomain(),
		Goal:  m.Goal.toDomain(),
		Walls: walls,
	}
}

// MoveRequest names a direction for a standard-mode step.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// BetRequest is a secret battle bet.
type BetRequest struct {
	Bet int `json:"bet" binding:"required"`
}

// DeclareRequest is an extra-mode action declaration.
type DeclareRequest struct {
	Type        string   `json:"type" binding:"required"`
	TargetID    string   `json:"target_id"`
	TargetCell  *CellDTO `json:"target_cell"`
	Sabotage    string   `json:"sabotage"`
	TrapCell    *CellDTO `json:"trap_cell"`
	Negotiation string   `json:"negotiation"`
	Condition   string   `json:"condition"`
	Betrayal    bool     `json:"betrayal"`
}

// ToDomain converts the request to a domain declaration.
func (d DeclareRequest) ToDomain() dmn.Declaration {
	decl := dmn.Declaration{
		Type:        dmn.ActionType(d.Type),
		TargetID:    d.TargetID,
		Sabotage:    dmn.SabotageKind(d.Sabotage),
		Negotiation: dmn.AllianceType(d.Negotiation),
		Condition:   d.Condition,
		Betrayal:    d.Betrayal,
	}
	if d.TargetCell != nil {
		cell := d.TargetCell.toDomain()
		decl.TargetCell = &cell
	}
	if d.TrapCell != nil {
		cell := d.TrapCell.toDomain()
		decl.TrapCell = &cell
	}
	return decl
}

// OfferResponseRequest accepts or rejects a negotiation offer.
type OfferResponseRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ChatRequest carries one chat message.
type ChatRequest struct {
	Text string `json:"text" binding:"required"`
}
