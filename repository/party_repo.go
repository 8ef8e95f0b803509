package repository

import (
	"context"

	"lorryledger/models"
)

type PartyRepository interface {
	SaveParty(ctx context.Context, p *models.Party) error
	GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error)
}
