package presenter

import (
	"github.com/fazamuttaqien/meetsync/database"
	"github.com/fazamuttaqien/meetsync/internal/controller"
)

type Presenter struct {
	Controllers *controller.Controller
}

func New(db *database.DB) Presenter {
	controllers := controller.New(db)
	return Presenter{
		Controllers: controllers,
	}
}
