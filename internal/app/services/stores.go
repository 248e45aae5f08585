package services

import (
	"github.com/jackc/pgx/v5"
	"github.com/yigit/electivehub/internal/app/repositories"
)

// repositoryStores is the production AllocationStores: it binds the pgx
// repositories to the transaction each allocation entry point runs in.
type repositoryStores struct {
	repos *repositories.Repositories
}

// NewRepositoryStores wraps the repositories as transaction-bound stores
func NewRepositoryStores(repos *repositories.Repositories) AllocationStores {
	return repositoryStores{repos: repos}
}

func (b repositoryStores) Offerings(tx pgx.Tx) OfferingStore {
	return b.repos.OfferingRepository.WithTx(tx)
}

func (b repositoryStores) Requests(tx pgx.Tx) RequestStore {
	return b.repos.RequestRepository.WithTx(tx)
}

func (b repositoryStores) Scores(tx pgx.Tx) ScoreProvider {
	return b.repos.StudentRepository.WithTx(tx)
}
