package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

// projectionRequest is the wire form of a projection. Amounts arrive as JSON
// numbers and are converted once at this boundary.
type projectionRequest struct {
	InitialAmount        float64 `json:"initial_amount" validate:"gte=0"`
	PeriodicContribution float64 `json:"periodic_contribution" validate:"gte=0"`
	PeriodsPerYear       int     `json:"periods_per_year" validate:"required,oneof=12 4 2"`
	Years                float64 `json:"years" validate:"gte=0,lte=100"`
	AnnualReturnRate     float64 `json:"annual_return_rate" validate:"gt=-1"`
	RateConvention       string  `json:"rate_convention" validate:"omitempty,oneof=nominal geometric effective"`
	Granularity          string  `json:"granularity" validate:"omitempty,oneof=period year"`
}

type optimizationRequest struct {
	projectionRequest
	TargetAmount float64              `json:"target_amount" validate:"gt=0"`
	SearchPolicy *domain.SearchPolicy `json:"search_policy,omitempty"`
}

type riskRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

type projectionResponse struct {
	domain.ProjectionResult
	EndingValue string `json:"ending_value"`
	Growth      string `json:"growth"`
}

type optimizationResponse struct {
	domain.OptimizationOutcome
	Message string `json:"message"`
}

type riskResponse struct {
	domain.RiskAssessment
	Portfolios domain.Catalogue `json:"portfolios"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	catalogue := domain.DefaultCatalogue()
	if p := r.URL.Query().Get("profile"); p != "" {
		profile, err := domain.ParseRiskProfile(p)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		catalogue = calculation.RecommendPortfolios(profile, catalogue)
	}
	writeJSON(w, http.StatusOK, catalogue)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := domain.DefaultCatalogue().Find(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %q", calculation.ErrUnknownPortfolio, id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Questionnaire)
}

func (s *Server) handleRiskProfile(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if !s.decode(w, r, &req) {
		return
	}
	assessment, err := s.engine.AssessRisk(req.Answers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, riskResponse{
		RiskAssessment: assessment,
		Portfolios:     calculation.RecommendPortfolios(assessment.Profile, domain.DefaultCatalogue()),
	})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	params, assumptions, err := req.toDomain()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.engine.ProjectorFor(assumptions).Project(params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		ProjectionResult: result,
		EndingValue:      result.EndingValue().StringFixed(2),
		Growth:           result.Growth().StringFixed(2),
	})
}

func (s *Server) handleOptimization(w http.ResponseWriter, r *http.Request) {
	var req optimizationRequest
	if !s.decode(w, r, &req) {
		return
	}
	params, assumptions, err := req.toDomain()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := domain.CheckFinite("target_amount", req.TargetAmount); err != nil {
		s.writeError(w, r, err)
		return
	}

	policy := domain.DefaultSearchPolicy()
	if req.SearchPolicy != nil && !req.SearchPolicy.IsZero() {
		policy = *req.SearchPolicy
	}
	outcome, err := s.engine.OptimizerFor(assumptions, policy).Optimize(domain.OptimizationRequest{
		ProjectionParameters: params,
		TargetAmount:         decimal.NewFromFloat(req.TargetAmount),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optimizationResponse{
		OptimizationOutcome: outcome,
		Message:             outcome.Describe(params.PeriodsPerYear),
	})
}

// handlePlan builds a full report. ?format= selects any registered output
// formatter; the default is the JSON report.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.PlanConfiguration
	if !s.decode(w, r, &plan) {
		return
	}
	if err := s.parser.ValidateConfiguration(&plan); err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.engine.BuildPlan(r.Context(), &plan)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Plan-ID", report.ID)

	format := r.URL.Query().Get("format")
	if format == "" || output.NormalizeFormatName(format) == "json" {
		writeJSON(w, http.StatusOK, report)
		return
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		s.writeError(w, r, fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format))
		return
	}
	body, err := f.Format(report)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(output.ExtensionFor(f.Name())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (req projectionRequest) toDomain() (domain.ProjectionParameters, domain.Assumptions, error) {
	var a domain.Assumptions
	if req.RateConvention != "" {
		c, err := domain.ParseRateConvention(req.RateConvention)
		if err != nil {
			return domain.ProjectionParameters{}, a, err
		}
		a.RateConvention = c
	}
	if req.Granularity != "" {
		g, err := domain.ParseGranularity(req.Granularity)
		if err != nil {
			return domain.ProjectionParameters{}, a, err
		}
		a.Granularity = g
	}
	params, err := domain.NewProjectionParameters(req.InitialAmount, req.PeriodicContribution,
		req.PeriodsPerYear, req.Years, req.AnnualReturnRate)
	return params, a, err
}

// decode reads a JSON body and runs struct validation. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		s.writeError(w, r, badRequest{fmt.Errorf("invalid JSON: %w", err)})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, r, badRequest{describeValidation(err)})
		return false
	}
	return true
}

// badRequest marks client errors that are not domain parameter errors.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", jsonFieldPath(fe.Namespace()), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// jsonFieldPath drops the Go type name from a validator namespace.
func jsonFieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br), errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, output.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, calculation.ErrUnknownPortfolio):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentTypeFor(ext string) string {
	switch ext {
	case "csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
