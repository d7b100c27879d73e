package web

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/hpungsan/mailtag/internal/classify"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	env        *ops.Env
	renderer   *Renderer
	guardrails string
}

// NewHandlers creates the route handlers. The guardrails page combines the
// embedded guardrails document with the classifier's live rule table.
func NewHandlers(env *ops.Env, renderer *Renderer) *Handlers {
	return &Handlers{
		env:        env,
		renderer:   renderer,
		guardrails: guardrailsMD + rulesMarkdown(env.Classifier),
	}
}

// HandleClassifyForm handles GET /classify: the empty classifier form.
func (h *Handlers) HandleClassifyForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.classifyPage(r.URL.Query().Get("customer_id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, r, "classify", data)
}

// HandleSample handles GET /classify/sample: prefill the form with a
// random email of the selected customer.
func (h *Handlers) HandleSample(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if strings.TrimSpace(customerID) == "" {
		customerID = h.defaultCustomer()
	}

	sample, err := ops.Sample(r.Context(), h.env, customerID)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, sample)
		return
	}

	data, err := h.classifyPage(sample.Customer.ID)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Subject = sample.Email.Subject
	data.Body = sample.Email.Body
	data.Sample = &sample.Email
	h.renderer.renderPage(w, r, "classify", data)
}

// HandleClassify handles POST /classify: run the classifier on the form input.
func (h *Handlers) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.ClassifyInput{
		CustomerID: r.FormValue("customer_id"),
		Subject:    r.FormValue("subject"),
		Body:       r.FormValue("body"),
		Mode:       r.FormValue("mode"),
		Tags:       r.Form["tag"],
	}

	result, err := ops.Classify(r.Context(), h.env, input)
	if err != nil {
		// Validation failures re-render the form so the input is not lost.
		var mErr *errors.MailtagError
		if !wantsJSON(r) && stderrors.As(err, &mErr) && mErr.Code == errors.ErrInvalidRequest {
			data, perr := h.classifyPage(input.CustomerID)
			if perr != nil {
				h.renderer.renderError(w, r, perr)
				return
			}
			data.Subject, data.Body, data.Mode = input.Subject, input.Body, input.Mode
			data.Error = mErr.Message
			h.renderer.renderPageStatus(w, r, mErr.Status, "classify", data)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data, err := h.classifyPage(input.CustomerID)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Subject, data.Body, data.Mode = input.Subject, input.Body, string(result.Mode)
	data.Result = result
	h.renderer.renderPage(w, r, "classify", data)
}

// HandleMetrics handles GET /metrics: the dataset dashboard.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := ops.Metrics(r.Context(), h.env)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, m)
		return
	}

	h.renderer.renderPage(w, r, "metrics", MetricsPageData{
		PageData: h.renderer.page("Metrics", "metrics"),
		Metrics:  m,
	})
}

// HandlePatterns handles GET /patterns: reference patterns and guardrails.
func (h *Handlers) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := ops.Patterns(h.env, r.URL.Query().Get("tag"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "patterns", PatternsPageData{
		PageData:     h.renderer.page("Patterns & Rules", "patterns"),
		Patterns:     patterns.Items,
		AntiPatterns: ops.AntiPatterns(h.env).Items,
		Guardrails:   renderMarkdown(h.guardrails),
	})
}

// classifyPage builds the classifier page for a customer, defaulting to the
// first customer in the catalog.
func (h *Handlers) classifyPage(customerID string) (ClassifyPageData, error) {
	if strings.TrimSpace(customerID) == "" {
		customerID = h.defaultCustomer()
	}
	cust, err := ops.TagsFor(h.env, customerID)
	if err != nil {
		return ClassifyPageData{}, err
	}
	return ClassifyPageData{
		PageData:  h.renderer.page("Classify", "classify"),
		Customers: ops.Customers(h.env).Items,
		Customer:  *cust,
		Mode:      string(h.env.Classifier.Mode()),
		Modes:     []classify.Mode{classify.ModeCascade, classify.ModeHighest},
		Threshold: classify.ConfidenceThreshold,
	}, nil
}

func (h *Handlers) defaultCustomer() string {
	customers := h.env.Catalog.Customers()
	if len(customers) == 0 {
		return ""
	}
	return customers[0].ID
}

