package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
)

type registrar interface {
	register(g *gin.RouterGroup)
}

// rejection is a business rule failure; its message goes to the client as
// {status:"no"} and rolls the transaction back.
type rejection string

func (r rejection) Error() string { return string(r) }

// resource serves one table with the DataTables list protocol and the
// show/store/update/delete envelope endpoints.
type resource[M models.Keyed] struct {
	path  string
	table datatables.Table
	// amount is the column summed by /summary.
	amount  string
	preload []string
	// scopes turns resource specific filters into query scopes.
	scopes func(r datatables.Request) []datatables.Scope
	toJSON func(m *M) gin.H
	// fill binds and validates the body onto m. tx is the surrounding
	// transaction; creating is false on update.
	fill func(c *gin.Context, tx *gorm.DB, m *M, creating bool) error
	// afterSave runs inside the transaction after Create/Save.
	afterSave func(c *gin.Context, tx *gorm.DB, m *M) error
	// inUse blocks deletion with "Data masih digunakan".
	inUse func(tx *gorm.DB, m *M) (bool, error)
	// beforeDelete runs inside the transaction when deletion is allowed.
	beforeDelete func(tx *gorm.DB, m *M) error
	// duplicate is the message for a unique violation on store/update.
	duplicate string
}

func (r *resource[M]) register(g *gin.RouterGroup) {
	base := "/" + r.path
	g.GET(base, r.list)
	g.POST(base+"/data", r.list)
	g.POST(base+"/show", r.show)
	g.POST(base+"/store", r.store)
	g.POST(base+"/update", r.update)
	g.POST(base+"/delete", r.delete)
	g.POST(base+"/summary", r.summary)
}

func listRequest(c *gin.Context) datatables.Request {
	if c.Request.Method == http.MethodGet {
		return datatables.Parse(c.Request.URL.Query())
	}
	_ = c.Request.ParseForm()
	return datatables.Parse(c.Request.PostForm)
}

func (r *resource[M]) query(tx *gorm.DB) *gorm.DB {
	for _, p := range r.preload {
		tx = tx.Preload(p)
	}
	return tx
}

func (r *resource[M]) scopesFor(req datatables.Request) []datatables.Scope {
	if r.scopes == nil {
		return nil
	}
	return r.scopes(req)
}

func (r *resource[M]) list(c *gin.Context) {
	req := listRequest(c)
	out, err := datatables.Run[M](r.query(db.WithContext(c.Request.Context())), r.table, req, r.scopesFor(req)...)
	if err != nil {
		respondFail(c, r.path+" list", err)
		return
	}
	c.JSON(http.StatusOK, datatables.Map(out, func(m M) gin.H { return r.toJSON(&m) }))
}

// load resolves the pid form field. A bad or unknown pid is a rejection.
func (r *resource[M]) load(c *gin.Context, tx *gorm.DB, m *M) error {
	id, err := pids.Decode(c.PostForm("pid"))
	if err != nil {
		return rejection(msgNotFound)
	}
	if err := r.query(tx).First(m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejection(msgNotFound)
		}
		return err
	}
	return nil
}

func (r *resource[M]) show(c *gin.Context) {
	var m M
	if err := r.load(c, db.WithContext(c.Request.Context()), &m); err != nil {
		r.finish(c, "show", err)
		return
	}
	respondOK(c, "", r.toJSON(&m))
}

func (r *resource[M]) store(c *gin.Context) {
	var m M
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := r.fill(c, tx, &m, true); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return r.after(c, tx, &m)
	})
	if err != nil {
		r.finish(c, "store", err)
		return
	}
	respondOK(c, msgSaved, api.Created{PID: pids.MustEncode(m.PK())})
}

func (r *resource[M]) update(c *gin.Context) {
	var m M
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := r.load(c, tx, &m); err != nil {
			return err
		}
		if err := r.fill(c, tx, &m, false); err != nil {
			return err
		}
		if err := tx.Omit(gorm.Associations).Save(&m).Error; err != nil {
			return err
		}
		return r.after(c, tx, &m)
	})
	if err != nil {
		r.finish(c, "update", err)
		return
	}
	respondOK(c, msgUpdated, nil)
}

func (r *resource[M]) after(c *gin.Context, tx *gorm.DB, m *M) error {
	if r.afterSave == nil {
		return nil
	}
	return r.afterSave(c, tx, m)
}

func (r *resource[M]) delete(c *gin.Context) {
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var m M
		if err := r.load(c, tx, &m); err != nil {
			return err
		}
		if r.inUse != nil {
			used, err := r.inUse(tx, &m)
			if err != nil {
				return err
			}
			if used {
				return rejection(msgInUse)
			}
		}
		if r.beforeDelete != nil {
			if err := r.beforeDelete(tx, &m); err != nil {
				return err
			}
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		r.finish(c, "delete", err)
		return
	}
	respondOK(c, msgDeleted, nil)
}

// finish maps a failed operation onto the envelope.
func (r *resource[M]) finish(c *gin.Context, op string, err error) {
	var rej rejection
	switch {
	case errors.As(err, &rej):
		respondNo(c, string(rej))
	case isForeignKeyError(err):
		respondNo(c, msgInUse)
	case isUniqueConstraintError(err):
		msg := r.duplicate
		if msg == "" {
			msg = "Data sudah ada"
		}
		respondNo(c, msg)
	default:
		respondFail(c, r.path+" "+op, err)
	}
}

// summary aggregates the resource for today, this week (from Monday) and
// this month, honouring the same filters as the list.
func (r *resource[M]) summary(c *gin.Context) {
	req := listRequest(c)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	week := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var out api.Summary
	buckets := []struct {
		from time.Time
		dst  *api.Bucket
	}{{today, &out.Today}, {week, &out.ThisWeek}, {month, &out.ThisMonth}}
	for _, b := range buckets {
		q := db.WithContext(c.Request.Context()).Model(new(M))
		for _, s := range r.scopesFor(req) {
			q = s(q)
		}
		var row struct {
			Count int64
			Total int64
		}
		err := q.Where(r.table.DateColumn+" >= ? AND "+r.table.DateColumn+" < ?", b.from, tomorrow).
			Select("COUNT(*) AS count, COALESCE(SUM(" + r.amount + "), 0) AS total").
			Scan(&row).Error
		if err != nil {
			respondFail(c, r.path+" summary", err)
			return
		}
		*b.dst = api.Bucket{Count: row.Count, Total: row.Total}
	}
	respondOK(c, "", out)
}

// bindForm binds the body into f and applies the same rules the client
// checks before submitting.
func bindForm[F any](c *gin.Context, f *F) error {
	if err := c.ShouldBind(f); err != nil {
		return rejection(msgInvalid)
	}
	if errs := forms.Validate(f); len(errs) > 0 {
		return rejection(errs.First())
	}
	return nil
}
