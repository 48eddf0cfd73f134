package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"tradebook/internal/apierror"
	"tradebook/internal/book"
	"tradebook/internal/errs"
	"tradebook/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields under their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			_ = c.Error(err)
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// fieldPath drops the struct name: "OrderRequest.lines[0].quantity" → "lines[0].quantity".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+param))
		return 0, false
	}
	return uint(id), true
}

type sessionFunc func(ctx context.Context, s *book.Session) (any, error)

// serve runs fn against the open book and writes its result with status.
func serve(c *gin.Context, books *book.Manager, status int, fn sessionFunc) {
	var result any
	err := books.With(c.Request.Context(), func(ctx context.Context, s *book.Session) error {
		c.Set(middleware.BookKey, s.Name)
		var err error
		result, err = fn(ctx, s)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, result)
}

// writeError maps a core failure to its HTTP status. Anything unexpected,
// storage failures included, is left to the ErrorHandler middleware.
func writeError(c *gin.Context, err error) {
	var (
		verr *errs.ValidationError
		riv  *errs.ReferentialIntegrityViolation
		dup  *errs.DuplicateKeyError
		nf   *errs.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationError{Detail: verr.Error(), Fields: verr.Fields})
	case errors.As(err, &riv):
		c.JSON(http.StatusConflict, apierror.WithContext(riv.Error(), map[string]any{
			"entity":         riv.Entity,
			"id":             riv.ID,
			"blocking_table": riv.BlockingTable,
			"count":          riv.Count,
		}))
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, apierror.WithContext(dup.Error(), map[string]any{
			"entity": dup.Entity,
			"field":  dup.Field,
			"value":  dup.Value,
		}))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.WithContext(nf.Error(), map[string]any{
			"entity": nf.Entity,
			"id":     nf.ID,
		}))
	case errors.Is(err, book.ErrUnknownBook):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, book.ErrNoBook):
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
