package config

import (
	"fmt"
	"os"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds a Supabase client from environment variables.
// SUPABASE_URL and SUPABASE_SERVICE_KEY are required; there is no baked-in
// fallback key, a missing value is a boot failure.
func NewSupabaseClient() (*supa.Client, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}

	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is not set")
	}

	client, err := supa.NewClient(supabaseURL, supabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing Supabase client: %w", err)
	}

	return client, nil
}
