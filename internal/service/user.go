package service

import (
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// AllExcept lists every other user, for the grant-access picker.
func (s *UserService) AllExcept(userID string) ([]*model.User, error) {
	return s.userRepository.AllExcept(userID)
}
