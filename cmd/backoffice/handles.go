package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/resources"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/tui"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/view"
)

// handle is one resource with its record type erased, so commands can pick
// a resource by name.
type handle interface {
	list(ctx context.Context, w io.Writer, page int, search string, filters map[string]string) error
	show(ctx context.Context, w io.Writer, pid string) error
	create(ctx context.Context, set map[string]string, proof *forms.Upload) (pid, msg string, err error)
	edit(ctx context.Context, pid string, set map[string]string, proof *forms.Upload) (string, error)
	remove(ctx context.Context, pid string) (string, error)
	pane() tui.Pane
}

// kit binds a record type to its form and to the date and amount the page
// stats are computed from.
type kit[T any, F forms.Draft] struct {
	form   func(T) F
	date   func(T) time.Time
	amount func(T) int64
}

type typedHandle[W, T any, F forms.Draft] struct {
	info  resources.Info
	src   *listresource.HTTPSource[W, T]
	ctl   *listresource.Controller[T]
	table view.Table[T]
	kit   kit[T, F]
	now   func() time.Time
}

func newHandle[W, T any, F forms.Draft](ctx context.Context, info resources.Info, src *listresource.HTTPSource[W, T], table view.Table[T], k kit[T, F], opts listresource.Options) handle {
	return &typedHandle[W, T, F]{
		info:  info,
		src:   src,
		ctl:   listresource.New[T](ctx, src, opts),
		table: table,
		kit:   k,
		now:   time.Now,
	}
}

func (h *typedHandle[W, T, F]) list(ctx context.Context, w io.Writer, page int, search string, filters map[string]string) error {
	perPage := h.ctl.State().Pagination.PerPage
	if err := h.ctl.Fetch(ctx, page, perPage, search, filters, false); err != nil {
		return err
	}
	st := h.ctl.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	if _, err := fmt.Fprintln(w, h.table.Render(st, -1)); err != nil {
		return err
	}
	if len(st.Items) == 0 {
		return nil
	}
	stats := listresource.PageStats(st.Items, h.kit.date, h.kit.amount, h.now())
	_, err := fmt.Fprintln(w, "Halaman ini • "+tui.SummaryLine(stats))
	return err
}

func (h *typedHandle[W, T, F]) show(ctx context.Context, w io.Writer, pid string) error {
	res := h.ctl.Show(ctx, pid)
	if !res.OK {
		return errors.New(res.Message)
	}
	width := 0
	for _, c := range h.table.Columns {
		width = max(width, len(c.Title))
	}
	for _, c := range h.table.Columns {
		fmt.Fprintf(w, "%-*s  %s\n", width, c.Title, c.Cell(res.Data))
	}
	return nil
}

func (h *typedHandle[W, T, F]) create(ctx context.Context, set map[string]string, proof *forms.Upload) (string, string, error) {
	var pid string
	m := forms.NewModal[F](func(ctx context.Context, p listresource.Payload) forms.Outcome {
		res := h.ctl.Create(ctx, p)
		pid = res.Data
		return forms.FromResult(res)
	})
	var blank T
	msg, err := submitForm(ctx, m, h.kit.form(blank), set, proof)
	return pid, msg, err
}

// edit starts from the stored record, so only the given fields change.
func (h *typedHandle[W, T, F]) edit(ctx context.Context, pid string, set map[string]string, proof *forms.Upload) (string, error) {
	cur := h.ctl.Show(ctx, pid)
	if !cur.OK {
		return "", errors.New(cur.Message)
	}
	m := forms.NewModal[F](func(ctx context.Context, p listresource.Payload) forms.Outcome {
		return forms.FromResult(h.ctl.Update(ctx, pid, p))
	})
	return submitForm(ctx, m, h.kit.form(cur.Data), set, proof)
}

func (h *typedHandle[W, T, F]) remove(ctx context.Context, pid string) (string, error) {
	res := h.ctl.Delete(ctx, pid)
	if !res.OK {
		return "", errors.New(res.Message)
	}
	return res.Message, nil
}

func (h *typedHandle[W, T, F]) pane() tui.Pane {
	return &tui.ListPane[T]{Name: h.info.Title, Ctl: h.ctl, Table: h.table, Summarizer: h.src}
}

// submitForm runs draft through the modal the way the web dialog does:
// field edits, validation, then one submit.
func submitForm[F forms.Draft](ctx context.Context, m *forms.Modal[F], draft F, set map[string]string, proof *forms.Upload) (string, error) {
	m.Open(draft)
	var applyErr error
	m.Edit(func(f *F) { applyErr = applyFields(f, set, proof) })
	if applyErr != nil {
		m.Close()
		return "", applyErr
	}
	out := m.Submit(ctx)
	if out.OK {
		return out.Message, nil
	}
	if errs := m.Errors(); len(errs) > 0 {
		return "", fieldErrors(errs)
	}
	return "", errors.New(out.Message)
}

var uploadType = reflect.TypeOf((*forms.Upload)(nil))

// applyFields sets the string fields of form named by their form tag. The
// proof goes into the form's *forms.Upload field.
func applyFields(form any, set map[string]string, proof *forms.Upload) error {
	v := reflect.ValueOf(form).Elem()
	t := v.Type()
	known := map[string]int{}
	upload := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == uploadType {
			upload = i
			continue
		}
		name := strings.Split(f.Tag.Get("form"), ",")[0]
		if name != "" && name != "-" && f.Type.Kind() == reflect.String {
			known[name] = i
		}
	}
	for k, val := range set {
		i, ok := known[k]
		if !ok {
			names := make([]string, 0, len(known))
			for n := range known {
				names = append(names, n)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown field %q (choose from %s)", k, strings.Join(names, ", "))
		}
		v.Field(i).SetString(val)
	}
	if proof != nil {
		if upload < 0 {
			return errors.New("this resource takes no proof file")
		}
		v.Field(upload).Set(reflect.ValueOf(proof))
	}
	return nil
}

func fieldErrors(errs forms.FieldErrors) error {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + ": " + errs[k]
	}
	return errors.New(strings.Join(lines, "\n"))
}

// openHandle builds the handle for a resource name such as "bank-deposit".
func openHandle(ctx context.Context, tr listresource.Transport, name string, opts listresource.Options) (handle, error) {
	info, ok := resources.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (choose from %s)", name, strings.Join(resourceNames(), ", "))
	}
	switch name {
	case resources.KasEndpoint.Name:
		return newHandle(ctx, info, resources.NewKasSource(tr), view.KasTable(), kit[resources.Kas, forms.KasForm]{
			form:   forms.KasFormFrom,
			date:   func(k resources.Kas) time.Time { return k.Tanggal },
			amount: func(k resources.Kas) int64 { return k.Nominal },
		}, opts), nil
	case resources.PengajuanEndpoint.Name:
		return newHandle(ctx, info, resources.NewPengajuanSource(tr), view.PengajuanTable(), kit[resources.Pengajuan, forms.PengajuanForm]{
			form:   forms.PengajuanFormFrom,
			date:   func(p resources.Pengajuan) time.Time { return p.TanggalPengajuan },
			amount: func(p resources.Pengajuan) int64 { return p.NominalPengajuan },
		}, opts), nil
	case resources.BankDepositEndpoint.Name:
		return newHandle(ctx, info, resources.NewBankDepositSource(tr), view.BankDepositTable(), kit[resources.BankDeposit, forms.BankDepositForm]{
			form:   forms.BankDepositFormFrom,
			date:   func(d resources.BankDeposit) time.Time { return d.TanggalSetor },
			amount: func(d resources.BankDeposit) int64 { return d.Nominal },
		}, opts), nil
	case resources.FeedmilEndpoint.Name:
		return newHandle(ctx, info, resources.NewFeedmilSource(tr), view.FeedmilTable(), kit[resources.Feedmil, forms.FeedmilForm]{
			form:   forms.FeedmilFormFrom,
			date:   func(f resources.Feedmil) time.Time { return f.TanggalMasuk },
			amount: func(f resources.Feedmil) int64 { return f.Total },
		}, opts), nil
	case resources.OVKEndpoint.Name:
		return newHandle(ctx, info, resources.NewOVKSource(tr), view.OVKTable(), kit[resources.OVK, forms.OVKForm]{
			form:   forms.OVKFormFrom,
			date:   func(o resources.OVK) time.Time { return o.Tanggal },
			amount: func(o resources.OVK) int64 { return o.Total },
		}, opts), nil
	case resources.TandaTerimaEndpoint.Name:
		return newHandle(ctx, info, resources.NewTandaTerimaSource(tr), view.TandaTerimaTable(), kit[resources.TandaTerima, forms.TandaTerimaForm]{
			form:   forms.TandaTerimaFormFrom,
			date:   func(t resources.TandaTerima) time.Time { return t.Tanggal },
			amount: func(t resources.TandaTerima) int64 { return t.Total },
		}, opts), nil
	}
	return nil, fmt.Errorf("resource %q has no client binding", name)
}

func resourceNames() []string {
	out := make([]string, len(resources.All))
	for i, r := range resources.All {
		out[i] = r.Name
	}
	return out
}
