package domain

import "github.com/supabase-community/supabase-go"

// SupabaseClient wraps the two Supabase roles the backend uses: the anon
// client for validating user tokens against GoTrue, and the service-role
// client repositories query with (RLS bypassed, ownership enforced in
// application code).
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)

	DB() *supabase.Client
}
