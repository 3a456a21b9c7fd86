package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"goal-app/src/domain"

	"github.com/go-playground/validator/v10"
)

// Query parameter names recognized by the list and stats endpoints
const (
	ParamStatus          = "status"
	ParamPriority        = "priority"
	ParamSearch          = "q"
	ParamSortBy          = "sortBy"
	ParamOrder           = "order"
	ParamPage            = "page"
	ParamPageSize        = "pageSize"
	ParamIncludeArchived = "includeArchived"
)

// QueryParams lists every recognized query parameter
var QueryParams = []string{
	ParamStatus, ParamPriority, ParamSearch, ParamSortBy,
	ParamOrder, ParamPage, ParamPageSize, ParamIncludeArchived,
}

var sortFields = map[string]domain.SortField{
	"createdat": domain.SortByCreatedAt,
	"duedate":   domain.SortByDueDate,
	"priority":  domain.SortByPriority,
}

// GoalValidator checks query parameters and mutation payloads
type GoalValidator struct {
	validator *validator.Validate
	idPattern *regexp.Regexp
}

// NewGoalValidator creates a new goal validator instance
func NewGoalValidator() *GoalValidator {
	v := validator.New()
	gv := &GoalValidator{
		validator: v,
		idPattern: regexp.MustCompile(`^\d+$`),
	}

	v.RegisterValidation("due_date", validateDueDate)
	v.RegisterValidation("not_blank", validateNotBlank)

	return gv
}

// ParseGoalQuery turns raw query values into a GoalQuery. Checks run in a
// fixed order and the first failure is returned. Empty values count as absent.
func (gv *GoalValidator) ParseGoalQuery(params map[string]string) (domain.GoalQuery, error) {
	q := domain.DefaultGoalQuery()

	if status := params[ParamStatus]; status != "" {
		if err := gv.check(ParamStatus, status, "oneof=active completed overdue archived",
			"status must be one of active, completed, overdue, archived"); err != nil {
			return q, err
		}
		q.Status = domain.StatusFilter(status)
	}

	if priority := params[ParamPriority]; priority != "" {
		if err := gv.check(ParamPriority, priority, "oneof=low medium high all",
			"priority must be one of low, medium, high, all"); err != nil {
			return q, err
		}
		if priority != "all" {
			q.Priority = domain.Priority(priority)
		}
	}

	if sortBy := params[ParamSortBy]; sortBy != "" {
		field, ok := sortFields[strings.ToLower(sortBy)]
		if !ok {
			return q, domain.NewValidationError(ParamSortBy, "oneof",
				"sortBy must be one of createdAt, dueDate, priority")
		}
		q.SortBy = field
	}

	if order := params[ParamOrder]; order != "" {
		order = strings.ToLower(order)
		if err := gv.check(ParamOrder, order, "oneof=asc desc", "order must be asc or desc"); err != nil {
			return q, err
		}
		q.Order = domain.SortOrder(order)
	}

	if page := params[ParamPage]; page != "" {
		n, err := gv.parseInt(ParamPage, page, "min=1", "page must be a positive integer")
		if err != nil {
			return q, err
		}
		q.Page = n
	}

	if pageSize := params[ParamPageSize]; pageSize != "" {
		n, err := gv.parseInt(ParamPageSize, pageSize, fmt.Sprintf("min=1,max=%d", domain.MaxPageSize),
			fmt.Sprintf("pageSize must be an integer between 1 and %d", domain.MaxPageSize))
		if err != nil {
			return q, err
		}
		q.PageSize = n
	}

	if include := params[ParamIncludeArchived]; include != "" {
		if err := gv.check(ParamIncludeArchived, include, "oneof=true false",
			"includeArchived must be true or false"); err != nil {
			return q, err
		}
		q.IncludeArchived = include == "true"
	}

	q.Search = params[ParamSearch]
	return q, nil
}

// ValidateCreate checks a create payload. Priority is not checked here:
// creation falls back to medium for a missing or unknown priority.
func (gv *GoalValidator) ValidateCreate(in domain.CreateGoalInput) error {
	if !in.Title.Set || in.Title.Null {
		return domain.NewValidationError("title", "required", "title is required")
	}
	if err := gv.validateTitle(in.Title); err != nil {
		return err
	}
	return gv.validateDueDate(in.DueDate)
}

// ValidateUpdate checks the supplied fields of a partial update
func (gv *GoalValidator) ValidateUpdate(in domain.UpdateGoalInput) error {
	if in.Title.Set {
		if err := gv.validateTitle(in.Title); err != nil {
			return err
		}
	}
	if in.Priority.Set {
		if !in.Priority.HasValue() {
			return priorityError()
		}
		if err := gv.check("priority", in.Priority.Value, "oneof=low medium high",
			"priority must be one of low, medium, high"); err != nil {
			return err
		}
	}
	if err := gv.validateDueDate(in.DueDate); err != nil {
		return err
	}
	return validateArchived(in.Archived)
}

// ValidateArchive checks an archive payload; an absent value is allowed
func (gv *GoalValidator) ValidateArchive(in domain.ArchiveGoalInput) error {
	return validateArchived(in.Archived)
}

// ParseImportMode validates the import mode, defaulting to replace
func (gv *GoalValidator) ParseImportMode(mode string) (domain.ImportMode, error) {
	if mode == "" {
		return domain.ImportReplace, nil
	}
	if err := gv.check("mode", mode, "oneof=replace merge", "mode must be replace or merge"); err != nil {
		return "", err
	}
	return domain.ImportMode(mode), nil
}

// ParseID validates an id path parameter
func (gv *GoalValidator) ParseID(idStr string) (int, error) {
	// 数値以外の文字をチェック
	if !gv.idPattern.MatchString(idStr) {
		return 0, domain.NewValidationError("id", "numeric", "id must be a positive integer")
	}

	// 異常に長いIDを防ぐ
	if len(idStr) > 10 {
		return 0, domain.NewValidationError("id", "max", "id is too long")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "min", "id must be a positive integer")
	}

	return id, nil
}

func (gv *GoalValidator) validateTitle(title domain.Optional[string]) error {
	if !title.HasValue() {
		return domain.NewValidationError("title", "not_blank", "title must be a non-empty string")
	}
	return gv.check("title", title.Value, "not_blank", "title must be a non-empty string")
}

func (gv *GoalValidator) validateDueDate(dueDate domain.Optional[string]) error {
	if !dueDate.Set || dueDate.Null {
		return nil
	}
	if dueDate.Malformed() {
		return dueDateError()
	}
	return gv.check("dueDate", dueDate.Value, "due_date", dueDateError().Error())
}

func validateArchived(archived domain.Optional[bool]) error {
	if archived.Set && !archived.HasValue() {
		return domain.NewValidationError("archived", "boolean", "archived must be a boolean")
	}
	return nil
}

// check runs a single validator tag against value
func (gv *GoalValidator) check(field string, value any, tag, message string) error {
	if err := gv.validator.Var(value, tag); err != nil {
		ruleTag := tag
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			ruleTag = errs[0].Tag()
		}
		return domain.NewValidationError(field, ruleTag, message)
	}
	return nil
}

func (gv *GoalValidator) parseInt(field, raw, tag, message string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(field, "numeric", message)
	}
	if err := gv.check(field, n, tag, message); err != nil {
		return 0, err
	}
	return n, nil
}

func priorityError() error {
	return domain.NewValidationError("priority", "oneof", "priority must be one of low, medium, high")
}

func dueDateError() error {
	return domain.NewValidationError("dueDate", "due_date", "dueDate must be null or a YYYY-MM-DD date")
}

// カスタムバリデーション関数

func validateDueDate(fl validator.FieldLevel) bool {
	return domain.IsValidDueDate(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
