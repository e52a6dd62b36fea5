package app

import "errors"

var ErrNotAuthorized = errors.New("user is not authorized to use this bot")

// AccessService decides which Telegram users may talk to the bot.
type AccessService struct {
	allowed map[int64]struct{}
}

func NewAccessService(userIDs []int64) *AccessService {
	allowed := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}
	return &AccessService{allowed: allowed}
}

func (s *AccessService) Authorize(userID int64) error {
	if _, ok := s.allowed[userID]; !ok {
		return ErrNotAuthorized
	}
	return nil
}
