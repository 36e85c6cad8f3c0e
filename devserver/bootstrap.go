package devserver

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/users"
)

// SeedUser creates a dashboard account. An empty password is replaced by a generated
// one, which is returned so it can be shown once.
func (s *Server) SeedUser(email, firstName, lastName, password string, role users.RoleType) (generatedPassword string, err error) {
	if existing, err := s.users.GetByEmail(email); err == nil {
		s.logger.Info().Str("user", existing.Email).Msg("user already exists")
		return "", nil
	}

	var user *users.User
	if password == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)

		hash, err := users.HashPassword(generatedPassword)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		user = &users.User{
			Email:        email,
			FirstName:    firstName,
			LastName:     lastName,
			PasswordHash: hash,
			Role:         role,
			DateJoined:   time.Now(),
		}
	} else {
		if user, err = users.New(email, firstName, lastName, password, role); err != nil {
			return "", fmt.Errorf("failed to create user %s: %w", email, err)
		}
	}

	if err := s.users.Upsert(user); err != nil {
		return "", fmt.Errorf("failed to store user %s: %w", email, err)
	}
	s.logger.Info().Str("user", user.Email).Str("role", string(role)).Msg("created user")
	return generatedPassword, nil
}

// SeedDemoSites fills both collections with a few example records
func (s *Server) SeedDemoSites() {
	if s.cms.count() > 0 || s.helpdesk.count() > 0 {
		return
	}
	s.cms.create(record{"name": "Marketing site", "url": "https://www.example.com", "platform": "wordpress", "version": "6.5", "status": "active", "owner": "marketing"})
	s.cms.create(record{"name": "Docs portal", "url": "https://docs.example.com", "platform": "drupal", "version": "10.2", "status": "maintenance", "owner": "engineering"})
	s.helpdesk.create(record{"name": "Customer support", "url": "https://support.example.com", "provider": "zendesk", "status": "active", "supportEmail": "help@example.com", "openTickets": 12})
	s.helpdesk.create(record{"name": "Internal IT", "url": "https://it.example.com", "provider": "freshdesk", "status": "active", "supportEmail": "it@example.com", "openTickets": 3})
	s.logger.Info().Msg("seeded demo sites")
}
