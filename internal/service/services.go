package service

import (
	"github.com/ali-khaled-949/myChatApp/internal/config"
	"github.com/ali-khaled-949/myChatApp/internal/repository"
)

type Services struct {
	Auth *AuthService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, repos.Session, cfg),
	}
}
