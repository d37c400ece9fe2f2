package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/emilianozm24/baloncesto-api/storage"
)

// In-memory repository fakes backing the service tests. They enforce
// the same uniqueness rules as the Postgres schema so conflict paths
// can be exercised without a database.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id int, role models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Role = role
	return nil
}

func (r *memUserRepo) Confirm(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Confirmed = true
	return nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[int]*models.Token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{nextID: 1, tokens: make(map[int]*models.Token)}
}

func (r *memTokenRepo) Create(_ context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.nextID
	r.nextID++
	clone := *token
	r.tokens[token.ID] = &clone
	return nil
}

func (r *memTokenRepo) GetByValue(_ context.Context, value string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Value == value {
			clone := *token
			return &clone, nil
		}
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *memTokenRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return repositories.ErrTokenNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *memTokenRepo) DeleteByUser(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *memTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, token := range r.tokens {
		if token.Expired(now) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed, nil
}

type memTournamentRepo struct {
	mu          sync.Mutex
	nextID      int
	tournaments map[int]*models.Tournament
}

func newMemTournamentRepo() *memTournamentRepo {
	return &memTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *memTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == tournament.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	tournament.ID = r.nextID
	r.nextID++
	clone := *tournament
	r.tournaments[tournament.ID] = &clone
	return nil
}

func (r *memTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *tournament
	return &clone, nil
}

func (r *memTournamentRepo) GetByName(_ context.Context, name string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tournament := range r.tournaments {
		if tournament.Name == name {
			clone := *tournament
			return &clone, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *memTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, tournament := range r.tournaments {
		out = append(out, *tournament)
	}
	return out, nil
}

func (r *memTournamentRepo) Update(_ context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for id, existing := range r.tournaments {
		if id != tournament.ID && existing.Name == tournament.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	clone := *tournament
	r.tournaments[tournament.ID] = &clone
	return nil
}

func (r *memTournamentRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *memTournamentRepo) AddTeamID(_ context.Context, tournamentID, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.TeamIDs = append(tournament.TeamIDs, int64(teamID))
	return nil
}

func (r *memTournamentRepo) RemoveTeamID(_ context.Context, tournamentID, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.TeamIDs = removeID(tournament.TeamIDs, int64(teamID))
	return nil
}

func (r *memTournamentRepo) AddMatchID(_ context.Context, tournamentID, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.MatchIDs = append(tournament.MatchIDs, int64(matchID))
	return nil
}

func (r *memTournamentRepo) RemoveMatchID(_ context.Context, tournamentID, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.MatchIDs = removeID(tournament.MatchIDs, int64(matchID))
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type memTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{nextID: 1, teams: make(map[int]*models.Team)}
}

func (r *memTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.teams {
		if existing.Name == team.Name && existing.TournamentID == team.TournamentID && existing.Branch == team.Branch {
			return repositories.ErrTeamKeyConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	clone := *team
	return &clone, nil
}

func (r *memTeamRepo) GetByKey(_ context.Context, name string, tournamentID int, branch string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, team := range r.teams {
		if team.Name == name && team.TournamentID == tournamentID && team.Branch == branch {
			clone := *team
			return &clone, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *memTeamRepo) GetByNameAndTournament(_ context.Context, name string, tournamentID int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, team := range r.teams {
		if team.Name == name && team.TournamentID == tournamentID {
			clone := *team
			return &clone, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *memTeamRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Team
	for _, team := range r.teams {
		if team.TournamentID == tournamentID {
			out = append(out, *team)
		}
	}
	return out, nil
}

func (r *memTeamRepo) Update(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	for id, existing := range r.teams {
		if id != team.ID && existing.Name == team.Name &&
			existing.TournamentID == team.TournamentID && existing.Branch == team.Branch {
			return repositories.ErrTeamKeyConflict
		}
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *memTeamRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.teams, id)
	return nil
}

func (r *memTeamRepo) AddPlayerID(_ context.Context, teamID, playerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.PlayerIDs = append(team.PlayerIDs, int64(playerID))
	return nil
}

func (r *memTeamRepo) RemovePlayerID(_ context.Context, teamID, playerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.PlayerIDs = removeID(team.PlayerIDs, int64(playerID))
	return nil
}

type memPlayerRepo struct {
	mu      sync.Mutex
	nextID  int
	players map[int]*models.Player
}

func newMemPlayerRepo() *memPlayerRepo {
	return &memPlayerRepo{nextID: 1, players: make(map[int]*models.Player)}
}

func (r *memPlayerRepo) conflict(player *models.Player) error {
	for id, existing := range r.players {
		if id == player.ID {
			continue
		}
		if existing.CURP == player.CURP {
			return repositories.ErrPlayerCURPConflict
		}
		if existing.Number == player.Number {
			return repositories.ErrPlayerNumberConflict
		}
		if existing.NumberIPN == player.NumberIPN {
			return repositories.ErrPlayerNumberIPNConflict
		}
	}
	return nil
}

func (r *memPlayerRepo) Create(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(player); err != nil {
		return err
	}
	player.ID = r.nextID
	r.nextID++
	clone := *player
	r.players[player.ID] = &clone
	return nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	clone := *player
	return &clone, nil
}

func (r *memPlayerRepo) ListByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Player
	for _, player := range r.players {
		if player.TeamID == teamID {
			out = append(out, *player)
		}
	}
	return out, nil
}

func (r *memPlayerRepo) Update(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	if err := r.conflict(player); err != nil {
		return err
	}
	clone := *player
	r.players[player.ID] = &clone
	return nil
}

func (r *memPlayerRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
	return nil
}

type memMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *memMatchRepo) Create(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.ID = r.nextID
	r.nextID++
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *match
	return &clone, nil
}

func (r *memMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.matches {
		if match.TournamentID == tournamentID {
			out = append(out, *match)
		}
	}
	return out, nil
}

func (r *memMatchRepo) Update(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *memMatchRepo) UpdateStatus(_ context.Context, id int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	return nil
}

func (r *memMatchRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, id)
	return nil
}

func (r *memMatchRepo) DeleteByTournament(_ context.Context, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, match := range r.matches {
		if match.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	return nil
}

// memUploader records uploads and deletes so tests can assert the
// attachment lifecycle ordering.
type memUploader struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	failAll bool
}

func newMemUploader() *memUploader {
	return &memUploader{objects: make(map[string]string)}
}

func (u *memUploader) Upload(_ context.Context, key, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll {
		return nil, errUploadFailed
	}
	u.objects[key] = contentType
	return &storage.UploadResult{Key: key, Location: "mem://" + key}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://files.test/" + key
}

func (u *memUploader) stored() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.objects)
}

var errUploadFailed = errors.New("upload failed")

// memMailer records outbound messages instead of speaking SMTP.
type memMailer struct {
	mu            sync.Mutex
	confirmations []string
	resets        []string
	lastToken     string
}

func (m *memMailer) SendConfirmationEmail(email, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, email)
	m.lastToken = token
	return nil
}

func (m *memMailer) SendPasswordResetEmail(email, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, email)
	m.lastToken = token
	return nil
}

// memBroadcaster captures live events for assertions.
type memBroadcaster struct {
	mu     sync.Mutex
	rooms  []string
	events []interface{}
}

func (b *memBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, roomID)
	b.events = append(b.events, message)
}
