package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/radar/internal/server"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// Auth runs the authorization code flow and saves the issued tokens to the config file.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	svc, err := r.newSpotify()
	if err != nil {
		return err
	}

	token, err := r.authorize(ctx, svc)
	if err != nil {
		return err
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("%s Authorization successful", r.style(ui.Success, "✓"))
	r.writePlainln("%s Tokens saved to %s", r.style(ui.Success, "✓"), r.configPath)
	return r.writePlainln("\nYou can now use: radar update")
}

// authorize sends the user to the consent page and waits for the redirect on the local listener.
func (r *Runner) authorize(ctx context.Context, srv services.OAuthService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewOAuthHandler(srv.GetOAuthConfig(), state)
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	callback, err := server.NewCallback(addr, handler, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Info("waiting for OAuth callback", "addr", callback.Addr())

	authURL := srv.GetAuthURL(state)
	r.writePlainln("→ Opening browser for Spotify authorization...")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlainln("%s", r.style(ui.Warning, "⚠ Could not open browser automatically."))
		r.writePlainln("Please open this URL in your browser:\n%s\n", authURL)
	}

	r.writePlainln("→ Waiting for authorization (%s timeout)...", authTimeout)

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	result, err := callback.Wait(waitCtx)
	if err != nil {
		return nil, err
	}
	if err := result.Error(); err != nil {
		return nil, err
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

// ConfigInit writes the default configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.writePlainln("%s Wrote default configuration to %s", r.style(ui.Success, "✓"), r.configPath)
	return r.writePlainln("%s", r.style(ui.Muted, "Set client_id and client_secret, then run: radar auth"))
}
