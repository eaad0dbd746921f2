package controller

import (
	"net/url"
	"os"

	"github.com/fazamuttaqien/meetsync/database"
	"github.com/fazamuttaqien/meetsync/internal/bucket"
	calsync "github.com/fazamuttaqien/meetsync/internal/sync"
)

type Controller struct {
	db          *database.DB
	store       *bucket.Store
	syncer      *calsync.Service
	frontendUrl string
}

func New(db *database.DB) *Controller {
	frontendUrl, err := url.Parse(os.Getenv("FRONTEND_URL"))
	if err != nil {
		panic("Invalid FRONTEND_URL configuration")
	}

	if frontendUrl.String() == "" {
		panic("FRONTEND_URL configuration is missing")
	}

	store := bucket.NewStore(db.DB)
	return &Controller{
		db:          db,
		store:       store,
		syncer:      calsync.NewService(db.DB, store),
		frontendUrl: frontendUrl.String(),
	}
}
