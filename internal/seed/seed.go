package seed

import (
	"context"

	"github.com/rs/zerolog"
)

// AdminPromoter grants the admin role to existing users by email
type AdminPromoter interface {
	PromoteAdmins(ctx context.Context, emails []string) (int64, error)
}

// CreateDefaultData promotes the configured admin e-mails that already have
// a user record. Users who sign in later are resolved through the allow-list
// at request time, so a failure here never blocks startup.
func CreateDefaultData(ctx context.Context, users AdminPromoter, adminEmails []string, lgr zerolog.Logger) error {
	if len(adminEmails) == 0 {
		lgr.Info().Msg("No admin e-mails configured, skipping admin promotion")
		return nil
	}

	lgr.Info().Int("allowList", len(adminEmails)).Msg("Promoting configured admins...")
	promoted, err := users.PromoteAdmins(ctx, adminEmails)
	if err != nil {
		lgr.Error().Err(err).Msg("Error promoting admins")
		return err
	}
	lgr.Info().Int64("promoted", promoted).Msg("Admin promotion complete")
	return nil
}
