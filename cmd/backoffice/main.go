// Command backoffice is the terminal client of the back-office server: log
// in, list, inspect, create, edit and delete records, download proofs, or
// browse them interactively.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/transport"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        config
	creds      *transport.FileCredentials
	client     *transport.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "back-office terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to the YAML config file")
	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.listCmd(),
		a.showCmd(),
		a.createCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.approveCmd(),
		a.downloadCmd(),
		a.browseCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.creds = &transport.FileCredentials{Path: cfg.TokenFile}
	a.client = transport.New(cfg.URL, a.creds)
	return nil
}

func (a *app) options() listresource.Options {
	return listresource.Options{PerPage: a.cfg.PerPage}
}

// explain maps transport failures to the message a user can act on.
func explain(err error) error {
	if err == nil {
		return nil
	}
	if transport.IsSessionExpired(err) {
		return errors.New(transport.ErrSessionExpired.Error() + " (backoffice login)")
	}
	return errors.New(transport.Message(err))
}

func (a *app) loginCmd() *cobra.Command {
	var username, password string
	c := &cobra.Command{
		Use:   "login",
		Short: "log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			var out struct {
				Token        string `json:"token"`
				RefreshToken string `json:"refresh_token"`
			}
			anon := transport.New(a.cfg.URL, nil)
			body := map[string]string{"username": username, "password": password}
			if err := anon.PostJSON(cmd.Context(), "/api/auth/login", body, &out); err != nil {
				return explain(err)
			}
			if err := a.creds.Save(out.Token, out.RefreshToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", username)
			return nil
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "username")
	c.Flags().StringVarP(&password, "password", "p", os.Getenv("BACKOFFICE_PASSWORD"), "password (or BACKOFFICE_PASSWORD)")
	return c
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "revoke the refresh token and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt, err := a.creds.RefreshToken(); err == nil && rt != "" {
				// best effort; the local session is cleared either way
				_ = a.client.PostJSON(cmd.Context(), "/api/auth/revoke", map[string]string{"refresh_token": rt}, nil)
			}
			return a.creds.Clear()
		},
	}
}

type listFlags struct {
	page      int
	perPage   int
	search    string
	startDate string
	endDate   string
	filters   []string
}

func (a *app) listCmd() *cobra.Command {
	var f listFlags
	c := &cobra.Command{
		Use:       "list <resource>",
		Short:     "print one page of a resource",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := f.filterMap()
			if err != nil {
				return err
			}
			opts := a.options()
			if f.perPage > 0 {
				opts.PerPage = f.perPage
			}
			h, err := openHandle(cmd.Context(), a.client, args[0], opts)
			if err != nil {
				return err
			}
			return explain(h.list(cmd.Context(), cmd.OutOrStdout(), f.page, f.search, filters))
		},
	}
	c.Flags().IntVar(&f.page, "page", 1, "page number")
	c.Flags().IntVar(&f.perPage, "per-page", 0, "rows per page (default from config)")
	c.Flags().StringVar(&f.search, "search", "", "search term")
	c.Flags().StringVar(&f.startDate, "start-date", "", "first day, YYYY-MM-DD")
	c.Flags().StringVar(&f.endDate, "end-date", "", "last day, YYYY-MM-DD")
	c.Flags().StringSliceVar(&f.filters, "filter", nil, "extra filter key=value, e.g. tab=pending")
	return c
}

type dateRange struct {
	Start string `form:"start_date" label:"Tanggal awal" validate:"required,datetime=2006-01-02"`
	End   string `form:"end_date" label:"Tanggal akhir" validate:"required,datetime=2006-01-02"`
}

// filterMap validates the date range the same way the web filters do.
func (f listFlags) filterMap() (map[string]string, error) {
	out := map[string]string{}
	if f.startDate != "" || f.endDate != "" {
		rng := dateRange{Start: f.startDate, End: f.endDate}
		if errs := forms.Validate(rng); len(errs) > 0 {
			return nil, errors.New(errs.First())
		}
		if rng.End < rng.Start {
			return nil, errors.New("Tanggal akhir harus setelah tanggal awal")
		}
		out["start_date"] = f.startDate
		out["end_date"] = f.endDate
	}
	for _, kv := range f.filters {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("filter %q must be key=value", kv)
		}
		out[k] = v
	}
	return out, nil
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show <resource> <pid>",
		Short:     "print one record",
		Args:      cobra.ExactArgs(2),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHandle(cmd.Context(), a.client, args[0], a.options())
			if err != nil {
				return err
			}
			return explain(h.show(cmd.Context(), cmd.OutOrStdout(), args[1]))
		},
	}
}

type formFlags struct {
	set   []string
	bukti string
}

func (f *formFlags) bind(c *cobra.Command) {
	c.Flags().StringArrayVar(&f.set, "set", nil, "field value as key=value, e.g. nominal=1.500.000 (repeatable)")
	c.Flags().StringVar(&f.bukti, "bukti", "", "proof file to attach (jpg, jpeg, png or pdf, max 2MB)")
}

func (f formFlags) parse() (map[string]string, *forms.Upload, error) {
	set := map[string]string{}
	for _, kv := range f.set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, nil, fmt.Errorf("--set %q must be key=value", kv)
		}
		set[k] = v
	}
	if f.bukti == "" {
		return set, nil, nil
	}
	// the size rule is checked again by the form before anything is sent
	data, err := os.ReadFile(f.bukti)
	if err != nil {
		return nil, nil, fmt.Errorf("read proof: %w", err)
	}
	return set, &forms.Upload{Name: filepath.Base(f.bukti), Content: data}, nil
}

func (a *app) createCmd() *cobra.Command {
	var f formFlags
	c := &cobra.Command{
		Use:   "create <resource>",
		Short: "create a record from --set fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, proof, err := f.parse()
			if err != nil {
				return err
			}
			h, err := openHandle(cmd.Context(), a.client, args[0], a.options())
			if err != nil {
				return err
			}
			pid, msg, err := h.create(cmd.Context(), set, proof)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			if pid != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "pid: %s\n", pid)
			}
			return nil
		},
	}
	f.bind(c)
	return c
}

func (a *app) editCmd() *cobra.Command {
	var f formFlags
	c := &cobra.Command{
		Use:   "edit <resource> <pid>",
		Short: "change fields of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, proof, err := f.parse()
			if err != nil {
				return err
			}
			if len(set) == 0 && proof == nil {
				return errors.New("nothing to change; pass --set or --bukti")
			}
			h, err := openHandle(cmd.Context(), a.client, args[0], a.options())
			if err != nil {
				return err
			}
			msg, err := h.edit(cmd.Context(), args[1], set, proof)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	f.bind(c)
	return c
}

func (a *app) approveCmd() *cobra.Command {
	var draft forms.ApprovalForm
	c := &cobra.Command{
		Use:   "approve <pid>",
		Short: "approve or reject a pengajuan biaya kas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := forms.NewModal[forms.ApprovalForm](func(ctx context.Context, p listresource.Payload) forms.Outcome {
				p.Fields.Set("pid", args[0])
				var env api.Envelope
				if err := a.client.PostForm(ctx, "/api/pengajuan-biaya-kas/approve", p.Fields, &env); err != nil {
					return forms.Outcome{Message: explain(err).Error()}
				}
				return forms.Outcome{OK: env.OK(), Message: env.Message}
			})
			msg, err := submitForm(cmd.Context(), m, draft, nil, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	c.Flags().StringVar(&draft.NominalDisetujui, "amount", "", "approved amount; empty approves the full request")
	c.Flags().BoolVar(&draft.Ditolak, "reject", false, "reject the request")
	c.Flags().StringVar(&draft.Catatan, "note", "", "note, required when rejecting")
	return c
}

func (a *app) downloadCmd() *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "download <file-pid>",
		Short: "download a stored proof file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, name, err := a.client.Download(cmd.Context(), "/api/files/"+args[0])
			if err != nil {
				return explain(err)
			}
			defer body.Close()
			path := out
			if path == "" {
				path = filepath.Base(name)
				if name == "" || path == "." || path == "/" {
					path = args[0]
				}
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return err
			}
			n, err := io.Copy(f, body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(path)
				return fmt.Errorf("download: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", path, n)
			return nil
		},
	}
	c.Flags().StringVarP(&out, "output", "o", "", "target file (default: the server's file name); never overwritten")
	return c
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "delete <resource> <pid>",
		Short: "delete one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("pass --yes to confirm the deletion")
			}
			h, err := openHandle(cmd.Context(), a.client, args[0], a.options())
			if err != nil {
				return err
			}
			msg, err := h.remove(cmd.Context(), args[1])
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return c
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [resource...]",
		Short: "browse resources interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = resourceNames()
			}
			var panes []tui.Pane
			for _, n := range names {
				h, err := openHandle(cmd.Context(), a.client, n, a.options())
				if err != nil {
					return err
				}
				panes = append(panes, h.pane())
			}
			p := tea.NewProgram(tui.NewBrowser(cmd.Context(), panes...), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}
