// Package main provides a tool to seed the local store with demo
// consultation data.
//
// This creates demo grower accounts, questions across the consultation
// categories, shared-log messages, triage tags, and a notification
// roster entry so the triage and search screens have something to show.
//
// Usage:
//
//	DATA_PATH=~/ichigo/data go run ./cmd/seed
//	DATA_PATH=~/ichigo/data go run ./cmd/seed --create-users  # Also create demo accounts
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ichigoapp/ichigo-server/internal/auth"
	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/id"
	"github.com/ichigoapp/ichigo-server/internal/store/badgerstore"
)

var createUsers = flag.Bool("create-users", false, "Create demo grower and admin accounts")

// demoPassword is the login password for every generated account.
const demoPassword = "ichigo-demo"

type demoAccount struct {
	email       string
	displayName string
	username    string
	role        domain.Role
}

var demoAccounts = []demoAccount{
	{"hanako@ichigo.example", "Hanako Sato", "hanako", domain.RoleMember},
	{"kenta@ichigo.example", "Kenta Mori", "kenta", domain.RoleMember},
	{"sensei@ichigo.example", "Watanabe Sensei", "sensei", domain.RoleAdmin},
}

// demoQuestions cover every consultation category so the grouped list
// view renders with realistic variety.
var demoQuestions = []struct {
	category string
	title    string
	text     string
}{
	{"disease", "White powder on the leaves", "A thin white film showed up on the upper leaves in greenhouse two overnight. Should I cut those runners?"},
	{"pest", "Tiny flies around the crowns", "Clouds of small black flies lift off whenever I water. The sticky traps fill up within a day."},
	{"nutrition", "Leaf edges turning brown", "The older leaves are browning from the tips inward even though the drip feed schedule has not changed."},
	{"environment", "Humidity spikes after sunset", "The vents close at dusk and humidity jumps over 90 percent before the dehumidifier catches up."},
	{"harvest", "Berries soft at the shoulder", "This week's pick is soft near the calyx. Cold chain is fine so I suspect we are picking a day late."},
	{"other", "Labeling rules for direct sales", "Is there a standard way to label variety and harvest date for farm stand sales?"},
}

// demoLogLines seed the shared consultation log. The first few carry
// searchable symptoms so triage and search demos work out of the box.
var demoLogLines = []string{
	"Morning check: powdery mildew spreading on rows 3 and 4, started sulfur vaporizer.",
	"Switched the irrigation controller to the short-pulse program, soil moisture holding at 28 percent.",
	"Thrips damage on the new flowers in the west bay, ordered blue sticky traps.",
	"First full tray of Beni-hoppe from the elevated benches today.",
	"Night temperature dipped to 4 degrees, heater cycled fine.",
	"Reminder: calibrate the EC meter before the next fertigation batch.",
}

// demoTags are the triage labels applied to matching log lines.
var demoTags = []string{"powdery-mildew", "irrigation", "thrips"}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/ichigo/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening store at: %s\n", dbPath)

	s, err := badgerstore.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *createUsers {
		createDemoAccounts(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) == 0 {
		log.Fatal("No users in store. Run with --create-users or sign up through the API first.")
	}

	var members []*domain.User
	var admin *domain.User
	for _, u := range users {
		if u.IsAdmin() {
			if admin == nil {
				admin = u
			}
			continue
		}
		members = append(members, u)
	}
	if len(members) == 0 {
		log.Fatal("No member accounts found. Run with --create-users.")
	}
	fmt.Printf("Found %d users (%d members)\n", len(users), len(members))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	seedQuestions(ctx, s, members, rng, now)
	seedSharedLog(ctx, s, members, rng, now)
	tagIDs := seedTags(ctx, s)
	applyDemoTags(ctx, s, tagIDs)
	seedRoster(ctx, s, admin)

	fmt.Println("\nSeeding complete!")
}

// seedQuestions creates one question per demo category, spread over the
// past week, and gives each question thread a short exchange.
func seedQuestions(ctx context.Context, s *badgerstore.Store, members []*domain.User, rng *rand.Rand, now time.Time) {
	fmt.Println("\n=== Seeding questions ===")

	for i, dq := range demoQuestions {
		author := members[rng.Intn(len(members))]
		created := now.AddDate(0, 0, -(len(demoQuestions) - i)).Add(time.Duration(rng.Intn(10)) * time.Hour)

		q := &domain.Question{
			ID:            id.MustGenerate("q"),
			Category:      dq.category,
			Title:         dq.title,
			Text:          dq.text,
			UserID:        author.UID,
			UserEmail:     author.Email,
			DisplayName:   author.Name(),
			CreatedAt:     created,
			Status:        domain.StatusAdminNotified,
			AdminNotified: true,
		}
		// Resolve the two oldest so the list shows a mix of states.
		if i < 2 {
			resolved := created.Add(36 * time.Hour)
			q.Status = domain.StatusResolved
			q.ResolvedAt = &resolved
		}

		if err := s.CreateQuestion(ctx, q); err != nil {
			log.Printf("Failed to create question %q: %v", dq.title, err)
			continue
		}
		fmt.Printf("  Created question [%s] %s\n", q.Category, q.Title)

		reply := &domain.ThreadMessage{
			ID:          id.MustGenerate("msg"),
			ThreadID:    q.ID,
			Text:        "Thanks for the photos. Keep the vents open an extra hour and send a close-up of the underside tomorrow.",
			UserID:      author.UID,
			UserEmail:   author.Email,
			DisplayName: author.Name(),
			Timestamp:   created.Add(2 * time.Hour),
		}
		if err := s.AppendMessage(ctx, reply); err != nil {
			log.Printf("Failed to append reply for %s: %v", q.ID, err)
		}
	}
}

// seedSharedLog fills the shared consultation log with dated entries.
func seedSharedLog(ctx context.Context, s *badgerstore.Store, members []*domain.User, rng *rand.Rand, now time.Time) {
	fmt.Println("\n=== Seeding shared log ===")

	for i, line := range demoLogLines {
		author := members[rng.Intn(len(members))]
		m := &domain.ThreadMessage{
			ID:          id.MustGenerate("msg"),
			ThreadID:    domain.SharedThreadID,
			Text:        line,
			UserID:      author.UID,
			UserEmail:   author.Email,
			DisplayName: author.Name(),
			Timestamp:   now.AddDate(0, 0, -(len(demoLogLines) - i)),
		}
		if err := s.AppendMessage(ctx, m); err != nil {
			log.Printf("Failed to append log entry: %v", err)
			continue
		}
		fmt.Printf("  Logged: %.60s\n", line)
	}
}

// seedTags creates the demo triage tags, reusing existing ones when the
// seeder runs twice. Returns tag name -> id.
func seedTags(ctx context.Context, s *badgerstore.Store) map[string]string {
	fmt.Println("\n=== Seeding tags ===")

	existing, err := s.ListTags(ctx)
	if err != nil {
		log.Printf("Failed to list tags: %v", err)
		return nil
	}
	byName := make(map[string]string, len(existing))
	for _, t := range existing {
		byName[t.Name] = t.ID
	}

	for _, name := range demoTags {
		if _, ok := byName[name]; ok {
			fmt.Printf("  Tag exists: %s\n", name)
			continue
		}
		tag := &domain.Tag{
			ID:        id.MustGenerate("tag"),
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := s.CreateTag(ctx, tag); err != nil {
			log.Printf("Failed to create tag %q: %v", name, err)
			continue
		}
		byName[name] = tag.ID
		fmt.Printf("  Created tag: %s\n", name)
	}
	return byName
}

// applyDemoTags attaches the demo tags to the seeded log lines whose
// text mentions the tagged symptom.
func applyDemoTags(ctx context.Context, s *badgerstore.Store, tagIDs map[string]string) {
	if len(tagIDs) == 0 {
		return
	}

	messages, err := s.ListMessages(ctx, domain.SharedThreadID)
	if err != nil {
		log.Printf("Failed to list shared log: %v", err)
		return
	}

	keywords := map[string]string{
		"powdery-mildew": "mildew",
		"irrigation":     "irrigation",
		"thrips":         "thrips",
	}

	tagged := 0
	for _, m := range messages {
		changed := false
		for name, keyword := range keywords {
			tagID, ok := tagIDs[name]
			if !ok {
				continue
			}
			if containsFold(m.Text, keyword) && m.AddTag(tagID) {
				changed = true
			}
		}
		if changed {
			if err := s.UpdateMessage(ctx, m); err != nil {
				log.Printf("Failed to tag message %s: %v", m.ID, err)
				continue
			}
			tagged++
		}
	}
	fmt.Printf("  Tagged %d log entries\n", tagged)
}

// seedRoster puts the admin (when one exists) on the notification
// roster as a realtime target.
func seedRoster(ctx context.Context, s *badgerstore.Store, admin *domain.User) {
	if admin == nil {
		fmt.Println("\nNo admin account, skipping roster")
		return
	}
	fmt.Println("\n=== Seeding roster ===")

	targets, err := s.ListAdmins(ctx)
	if err != nil {
		log.Printf("Failed to list roster: %v", err)
		return
	}
	for _, t := range targets {
		if t.Email == admin.Email {
			fmt.Printf("  Roster entry exists: %s\n", t.Email)
			return
		}
	}

	target := &domain.AdminNotificationTarget{
		ID:               id.MustGenerate("admin"),
		Email:            admin.Email,
		NotificationType: domain.NotifyRealtime,
		CreatedAt:        time.Now(),
	}
	if err := s.CreateAdmin(ctx, target); err != nil {
		log.Printf("Failed to create roster entry: %v", err)
		return
	}
	fmt.Printf("  Added %s as realtime target\n", target.Email)
}

// createDemoAccounts creates the demo accounts, skipping any email that
// already has a user.
func createDemoAccounts(ctx context.Context, s *badgerstore.Store) {
	fmt.Println("\n=== Creating demo accounts ===")

	for _, acct := range demoAccounts {
		if _, err := s.GetUserByEmail(ctx, acct.email); err == nil {
			fmt.Printf("  Exists: %s\n", acct.email)
			continue
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			log.Printf("Failed to look up %s: %v", acct.email, err)
			continue
		}

		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v", acct.email, err)
			continue
		}

		now := time.Now()
		user := &domain.User{
			UID:         id.MustGenerate("user"),
			Email:       acct.email,
			DisplayName: acct.displayName,
			Username:    acct.username,
			Role:        acct.role,
			CreatedAt:   now,
		}
		cred := &domain.Credential{
			Email:        acct.email,
			PasswordHash: hash,
			UserID:       user.UID,
			CreatedAt:    now,
		}
		if err := s.CreateUser(ctx, user, cred); err != nil {
			log.Printf("Failed to create user %s: %v", acct.email, err)
			continue
		}
		fmt.Printf("  Created %s (%s, password %q)\n", acct.email, acct.role, demoPassword)
	}
}

// containsFold reports whether s contains substr ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
