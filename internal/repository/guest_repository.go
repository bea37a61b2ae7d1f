package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Invitation is a row of the invitation list: one invited party, looked
// up by email at registration time. PartySize caps how many plus-ones the
// invitee may register (party size includes the invitee).
type Invitation struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PartySize int       `json:"party_size"`
	CreatedAt time.Time `json:"created_at"`
}

// PlusOne is an additional attendee registered under an invitation.
type PlusOne struct {
	ID           uint64    `json:"id"`
	InvitationID uint64    `json:"invitation_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DirectoryEntry is one name in the guest directory: an invited guest or
// a registered plus-one. Seat assignment matches against Name by string
// equality, so the directory is the authority on spellings.
type DirectoryEntry struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Invited bool   `json:"invited"` // false for plus-ones
}

// ErrInvitationNotFound is returned when an email lookup yields no rows.
var ErrInvitationNotFound = errors.New("invitation not found")

// GuestRepo provides access to the invitation list and its plus-ones.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo constructs a GuestRepo with the given DB handle.
func NewGuestRepo(db *sql.DB) *GuestRepo {
	return &GuestRepo{db: db}
}

// CreateInvitation inserts a row into the invitation list. Emails are
// stored lower-cased; a duplicate email yields ErrConflict.
func (r *GuestRepo) CreateInvitation(ctx context.Context, name, email string, partySize int) (uint64, error) {
	if partySize < 1 {
		partySize = 1
	}
	const q = `INSERT INTO invitations (name, email, party_size) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, strings.TrimSpace(name), normalizeEmail(email), partySize)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail finds an invitation by normalized email.
func (r *GuestRepo) GetByEmail(ctx context.Context, email string) (*Invitation, error) {
	const q = `SELECT id, name, email, party_size, created_at FROM invitations WHERE email = ? LIMIT 1`
	var inv Invitation
	err := r.db.QueryRowContext(ctx, q, normalizeEmail(email)).
		Scan(&inv.ID, &inv.Name, &inv.Email, &inv.PartySize, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListInvitations returns the full invitation list ordered by name.
func (r *GuestRepo) ListInvitations(ctx context.Context) ([]Invitation, error) {
	const q = `SELECT id, name, email, party_size, created_at FROM invitations ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invitation
	for rows.Next() {
		var inv Invitation
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Email, &inv.PartySize, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// PlusOnesFor returns the plus-ones registered under an invitation.
func (r *GuestRepo) PlusOnesFor(ctx context.Context, invitationID uint64) ([]PlusOne, error) {
	const q = `SELECT id, invitation_id, name, COALESCE(email, ''), created_at
	           FROM plus_ones WHERE invitation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlusOne
	for rows.Next() {
		var p PlusOne
		if err := rows.Scan(&p.ID, &p.InvitationID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePlusOne registers an additional attendee under an invitation,
// enforcing the invitation's party size (invitee plus plus-ones). The
// pre-count and insert run in one transaction.
func (r *GuestRepo) CreatePlusOne(ctx context.Context, invitationID uint64, name, email string) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var partySize, existing int
	const qCap = `SELECT i.party_size, COUNT(p.id)
	              FROM invitations i
	              LEFT JOIN plus_ones p ON p.invitation_id = i.id
	              WHERE i.id = ?
	              GROUP BY i.party_size`
	if err := tx.QueryRowContext(ctx, qCap, invitationID).Scan(&partySize, &existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvitationNotFound
		}
		return 0, err
	}
	// plus-ones allowed = party_size - 1 (the invitee takes one slot)
	if existing >= partySize-1 {
		return 0, ErrConflict
	}

	const qIns = `INSERT INTO plus_ones (invitation_id, name, email) VALUES (?, ?, ?)`
	var emailVal sql.NullString
	if e := normalizeEmail(email); e != "" {
		emailVal = sql.NullString{String: e, Valid: true}
	}
	res, err := tx.ExecContext(ctx, qIns, invitationID, strings.TrimSpace(name), emailVal)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// Directory returns every known guest name: invited guests joined with
// their registered plus-ones.
func (r *GuestRepo) Directory(ctx context.Context) ([]DirectoryEntry, error) {
	const q = `SELECT name, email, 1 AS invited FROM invitations
	           UNION ALL
	           SELECT name, COALESCE(email, ''), 0 FROM plus_ones
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DirectoryEntry
	for rows.Next() {
		var e DirectoryEntry
		if err := rows.Scan(&e.Name, &e.Email, &e.Invited); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
