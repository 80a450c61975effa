// Package main generates bearer tokens for local development and testing.
// Tokens are signed with the dev key unless -key overrides it; they will
// NOT work against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"nbms/internal/auth"
	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
	"nbms/pkg/secrets"
)

// Matches config.go when NBMS_JWT_SIGNING_KEY is not set.
const devSigningKey = "dev-secret-key-change-in-production"

func main() {
	userID := flag.String("user-id", "", "User ID (UUID). Generated if empty.")
	name := flag.String("name", "Dev User", "Display name")
	orgID := flag.String("org-id", "", "Organisation ID (UUID, optional)")
	roles := flag.String("roles", "data_steward", "Comma-separated roles")
	staff := flag.Bool("staff", false, "Mark the actor as staff")
	superuser := flag.Bool("superuser", false, "Mark the actor as superuser")
	ttl := flag.Duration("ttl", 15*time.Minute, "Token time-to-live")
	key := flag.String("key", devSigningKey, "JWT signing key")
	asJSON := flag.Bool("json", false, "Output as JSON")
	newSecret := flag.Bool("new-secret", false, "Generate an API secret and its bcrypt hash for NBMS_TOKEN_SECRET_HASH, then exit")
	flag.Parse()

	if *newSecret {
		secret, err := secrets.Generate()
		if err != nil {
			fatalf("generate secret: %v", err)
		}
		hash, err := secrets.Hash(secret)
		if err != nil {
			fatalf("hash secret: %v", err)
		}
		fmt.Printf("secret: %s\nhash:   %s\n", secret, hash)
		return
	}

	actor := governance.Actor{
		DisplayName: *name,
		Staff:       *staff,
		Superuser:   *superuser,
	}

	if *userID == "" {
		actor.ID = id.NewUserID()
	} else {
		parsed, err := id.ParseUserID(*userID)
		if err != nil {
			fatalf("invalid user id: %v", err)
		}
		actor.ID = parsed
	}
	if *orgID != "" {
		parsed, err := id.ParseOrgID(*orgID)
		if err != nil {
			fatalf("invalid org id: %v", err)
		}
		actor.OrgID = &parsed
	}
	for _, role := range strings.Split(*roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			actor.Roles = append(actor.Roles, governance.Role(role))
		}
	}

	tokens := auth.NewTokenService(*key, "nbms", *ttl)
	token, err := tokens.Issue(actor, time.Now())
	if err != nil {
		fatalf("issue token: %v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(map[string]any{
			"token":      token,
			"user_id":    actor.ID.String(),
			"roles":      *roles,
			"expires_in": ttl.String(),
		}, "", "  ")
		if err != nil {
			fatalf("marshal output: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nuser_id: %s\nusage:   curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/indicators\n",
		actor.ID.String(), token)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
