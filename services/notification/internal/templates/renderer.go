package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFS - шаблоны, встроенные в бинарник (используются, если TEMPLATES_DIR не задан)
//
//go:embed *.tmpl
var DefaultFS embed.FS

const paymentCompletedTemplate = "payment_completed.tmpl"

// Время в сообщениях администратору - по Парижу
var displayLocation = mustLoadLocation("Europe/Paris")

var funcs = template.FuncMap{
	// amount переводит минорные единицы в основные: 150050 -> "1500.50"
	"amount": func(minor int64) string {
		return decimal.New(minor, -2).StringFixed(2)
	},
	"datetime": func(t time.Time) string {
		return t.In(displayLocation).Format("02/01/2006 15:04")
	},
}

// Renderer рендерит шаблоны для уведомлений
type Renderer struct {
	logger          *zap.Logger
	paymentTemplate *template.Template
}

// NewRenderer загружает шаблоны из fsys (DefaultFS или os.DirFS(TEMPLATES_DIR))
func NewRenderer(logger *zap.Logger, fsys fs.FS) (*Renderer, error) {
	paymentTemplate, err := template.New(paymentCompletedTemplate).Funcs(funcs).ParseFS(fsys, paymentCompletedTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment template: %w", err)
	}

	return &Renderer{
		logger:          logger,
		paymentTemplate: paymentTemplate,
	}, nil
}

// RenderPaymentCompleted рендерит шаблон для события оплаты заказа
func (r *Renderer) RenderPaymentCompleted(data any) (string, error) {
	var buf bytes.Buffer
	if err := r.paymentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render payment template: %w", err)
	}
	return buf.String(), nil
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
