package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"erp-portal/internal/auth"
	"erp-portal/internal/grants"
	"erp-portal/internal/guard"
	"erp-portal/internal/rbac"
	"erp-portal/internal/rbac/presets"
	"erp-portal/internal/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type CheckOutput struct {
	Key     string         `json:"key"`
	Roles   []session.Role `json:"roles"`
	Allowed bool           `json:"allowed"`
	Reason  string         `json:"reason,omitempty"`
}

// ErrDenied is returned by check when the permission is not granted, so the
// process exits non-zero
var ErrDenied = errors.New("permission denied")

func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check application.module.action",
		Short: "Evaluate one permission against the grant catalog",
		Long: `Evaluate one permission for a set of roles, or for the roles carried by an
access token, against the built-in catalog or a YAML grants file.

With --watch the check keeps running and prints the decision again whenever
it changes. Send SIGHUP to reload the grants file.`,
		Example: `  portal check purchase.purchase_requests.view --roles Purchasing-Agent
  portal check settings.currencies.edit --token "$TOKEN" --grants-file grants.yaml
  portal check invoicing.invoices.approve --roles Accountant --grants-file grants.yaml --watch`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			_ = viper.BindPFlags(cmd.Flags())
			_ = viper.BindEnv("jwt-secret", "JWT_SECRET")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			req, err := rbac.ParseKey(args[0])
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(cmd.Context(), v.GetString("grants-file"))
			if err != nil {
				return err
			}

			sess, err := checkSession(v, catalog)
			if err != nil {
				return err
			}

			if v.GetBool("watch") {
				return runWatch(cmd, v, req, sess)
			}

			out := CheckOutput{Key: req.Key(), Roles: sess.Roles, Allowed: true}
			if err := rbac.NewEvaluator().Authorize(sess, req); err != nil {
				out.Allowed = false
				out.Reason = err.Error()
			}

			if err := printCheck(cmd.OutOrStdout(), v.GetString("output"), out); err != nil {
				return err
			}
			if !out.Allowed {
				return ErrDenied
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("roles", nil, "roles to evaluate, comma separated")
	cmd.Flags().String("token", "", "access token whose roles are evaluated (needs JWT_SECRET)")
	cmd.Flags().String("grants-file", "", "YAML grants file; the built-in catalog is used when empty")
	cmd.Flags().StringP("output", "o", outputText, "output format (text or json)")
	cmd.Flags().Bool("watch", false, "keep running and re-check on SIGHUP")

	return cmd
}

func loadCatalog(ctx context.Context, path string) (rbac.Catalog, error) {
	var source grants.Source = grants.NewPresetSource(presets.Business())
	if path != "" {
		source = grants.NewFileSource(path)
	}

	catalog, err := source.Load(ctx)
	if err != nil {
		return rbac.Catalog{}, errors.Wrapf(err, "failed to load %s", source.Name())
	}
	if err := catalog.Validate(); err != nil {
		return rbac.Catalog{}, errors.Wrapf(err, "invalid catalog in %s", source.Name())
	}
	return catalog, nil
}

func checkSession(v *viper.Viper, catalog rbac.Catalog) (*session.Session, error) {
	token := v.GetString("token")
	if token == "" {
		roles := make([]session.Role, 0, len(v.GetStringSlice("roles")))
		for _, r := range v.GetStringSlice("roles") {
			roles = append(roles, session.Role(r))
		}
		if len(roles) == 0 {
			return nil, errors.New("either --roles or --token is required")
		}
		return &session.Session{
			UserID:      uuid.Nil,
			AccessToken: "cli",
			Roles:       roles,
			Grants:      catalog.GrantsFor(roles),
		}, nil
	}

	secret := v.GetString("jwt-secret")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set to verify --token")
	}
	claims, err := auth.NewTokenVerifier(secret).Verify(token)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	roles := claims.SessionRoles()
	return &session.Session{
		UserID:      claims.UserID,
		AccessToken: token,
		Roles:       roles,
		Grants:      catalog.GrantsFor(roles),
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func runWatch(cmd *cobra.Command, v *viper.Viper, req rbac.Request, sess *session.Session) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	reload := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		}
	}()

	rebuild := func() (*session.Session, error) {
		catalog, err := loadCatalog(ctx, v.GetString("grants-file"))
		if err != nil {
			return nil, err
		}
		return checkSession(v, catalog)
	}

	return watchCheck(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), v.GetString("output"), req, sess, reload, rebuild)
}

// watchCheck prints the decision for req, then again whenever a reload changes
// it. A failed rebuild keeps the previous session. It returns nil when ctx
// ends.
func watchCheck(
	ctx context.Context,
	out, errOut io.Writer,
	format string,
	req rbac.Request,
	sess *session.Session,
	reload <-chan struct{},
	rebuild func() (*session.Session, error),
) error {
	store := session.NewStore()
	store.Replace(sess)
	gate := guard.NewGate(guard.New(rbac.NewEvaluator(), req), store)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				next, err := rebuild()
				if err != nil {
					fmt.Fprintf(errOut, "reload failed, keeping previous grants: %v\n", err)
					continue
				}
				store.Replace(next)
			}
		}
	}()

	var printErr error
	err := gate.Run(ctx, func(d guard.Decision) {
		result := CheckOutput{Key: req.Key(), Roles: store.Load().Roles, Allowed: d.Allowed()}
		if !result.Allowed {
			result.Reason = fmt.Sprintf("%s not granted", d.Missing)
		}
		if err := printCheck(out, format, result); err != nil && printErr == nil {
			printErr = err
		}
	})
	if printErr != nil {
		return printErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func printCheck(w io.Writer, format string, out CheckOutput) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case outputText, "":
		if out.Allowed {
			fmt.Fprintf(w, "%s: allowed\n", out.Key)
		} else {
			fmt.Fprintf(w, "%s: denied (%s)\n", out.Key, out.Reason)
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

