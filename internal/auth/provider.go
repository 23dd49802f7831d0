// Package auth holds the signed-in session. The token itself comes from the
// identity provider's web sign-in and is kept in the OS keyring.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/zalando/go-keyring"
)

var ErrNotSignedIn = errors.New("not signed in")

type Status int

const (
	StatusLoading Status = iota
	StatusAbsent
	StatusPresent
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	default:
		return "unknown"
	}
}

type User struct {
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Token       string    `json:"token"`
	SignedInAt  time.Time `json:"signed_in_at"`
}

// Greeting is the name shown to the user, falling back to the email.
func (u *User) Greeting() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

type Session struct {
	Status Status
	User   *User
}

func (s Session) Present() bool { return s.Status == StatusPresent && s.User != nil }

// Provider is the identity provider as the UI sees it.
type Provider interface {
	Current() Session
	RedirectToSignIn() error
	RedirectToSignUp() error
	SignOut() error
}

// Opener opens a URL in the user's browser.
type Opener interface {
	Open(url string) error
}

type KeyringProvider struct {
	mu        sync.RWMutex
	service   string
	account   string
	signInURL string
	signUpURL string
	opener    Opener
	session   Session
}

func NewKeyringProvider(cfg config.AuthConfig, opener Opener) *KeyringProvider {
	return &KeyringProvider{
		service:   cfg.Service,
		account:   cfg.Account,
		signInURL: cfg.SignInURL,
		signUpURL: cfg.SignUpURL,
		opener:    opener,
		session:   Session{Status: StatusLoading},
	}
}

// Load resolves the loading state from the keyring.
func (p *KeyringProvider) Load() Session {
	data, err := keyring.Get(p.service, p.account)
	session := Session{Status: StatusAbsent}
	switch {
	case errors.Is(err, keyring.ErrNotFound):
	case err != nil:
		debuglog.Warnf("Reading session from keyring: %v", err)
	default:
		var u User
		if jsonErr := json.Unmarshal([]byte(data), &u); jsonErr != nil || u.Token == "" {
			debuglog.Warnf("Discarding malformed session")
			break
		}
		session = Session{Status: StatusPresent, User: &u}
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	return session
}

func (p *KeyringProvider) Current() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

func (p *KeyringProvider) User() (*User, error) {
	s := p.Current()
	if !s.Present() {
		return nil, ErrNotSignedIn
	}
	return s.User, nil
}

// SignIn stores a token obtained from the provider's sign-in page.
func (p *KeyringProvider) SignIn(token, displayName string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	u := &User{
		DisplayName: strings.TrimSpace(displayName),
		Token:       token,
		SignedInAt:  time.Now(),
	}
	if strings.Contains(u.DisplayName, "@") {
		u.Email = u.DisplayName
		u.DisplayName = ""
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := keyring.Set(p.service, p.account, string(data)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	p.mu.Lock()
	p.session = Session{Status: StatusPresent, User: u}
	p.mu.Unlock()
	return nil
}

func (p *KeyringProvider) SignOut() error {
	p.mu.Lock()
	p.session = Session{Status: StatusAbsent}
	p.mu.Unlock()

	if err := keyring.Delete(p.service, p.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (p *KeyringProvider) RedirectToSignIn() error {
	return p.redirect(p.signInURL)
}

func (p *KeyringProvider) RedirectToSignUp() error {
	return p.redirect(p.signUpURL)
}

func (p *KeyringProvider) redirect(url string) error {
	if url == "" {
		return errors.New("no URL configured")
	}
	if p.opener == nil {
		return fmt.Errorf("no browser available, visit %s", url)
	}
	return p.opener.Open(url)
}
