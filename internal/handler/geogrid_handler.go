package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"GeoRank-App/internal/domain/model"
	repoImpl "GeoRank-App/internal/repository"
	"GeoRank-App/internal/usecase"
)

const (
	defaultAuditGridSize = 5
	defaultAuditRadiusKm = 2.0
)

// GeoGridHandler はジオグリッド監査APIのハンドラー
type GeoGridHandler struct {
	auditUseCase usecase.GeoGridAuditUseCase
	validate     *validator.Validate
}

// NewGeoGridHandler は新しいGeoGridHandlerインスタンスを作成
func NewGeoGridHandler(auditUseCase usecase.GeoGridAuditUseCase) *GeoGridHandler {
	return &GeoGridHandler{
		auditUseCase: auditUseCase,
		validate:     validator.New(),
	}
}

// PostGrid はグリッド座標を生成するエンドポイント
// POST /geogrid/grid
func (h *GeoGridHandler) PostGrid(c *gin.Context) {
	var req model.GridConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	grid, err := h.auditUseCase.GenerateGrid(req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidGridConfig) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "バリデーションエラー",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "グリッドの生成に失敗しました",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"center":      grid.Center,
		"radius_km":   grid.RadiusKm,
		"point_count": len(grid.Points),
		"points":      grid.Points,
	})
}

// PostAudit は監査を実行するエンドポイント
// POST /geogrid/audits
func (h *GeoGridHandler) PostAudit(c *gin.Context) {
	// 省略されたキーだけ既定値のまま残る
	req := model.AuditRequest{
		RadiusKm: defaultAuditRadiusKm,
		GridSize: defaultAuditGridSize,
		Mode:     model.AuditModeSimulated,
	}

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	audit, err := h.auditUseCase.CreateAudit(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidGridConfig), errors.Is(err, model.ErrInvalidAuditRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "バリデーションエラー",
				"details": err.Error(),
			})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error":   "監査がタイムアウトしました",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "監査の実行に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, audit)
}

// validateRequest はタグによる検証とモードの確認を行う
func (h *GeoGridHandler) validateRequest(req *model.AuditRequest) error {
	if req.Mode == "" {
		req.Mode = model.AuditModeSimulated
	}

	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				Field:   toSnakeCase(fe.Field()),
				Message: fmt.Sprintf("%s制約を満たしていません (%s)", fe.Tag(), fe.Param()),
			}
		}
		return err
	}

	if !model.IsValidAuditMode(req.Mode) {
		return &ValidationError{Field: "mode", Message: "modeは'simulated'または'measured'を指定してください"}
	}
	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetAudit は監査結果を取得するエンドポイント
// GET /geogrid/audits/:id
func (h *GeoGridHandler) GetAudit(c *gin.Context) {
	audit, ok := h.findAudit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, audit)
}

// GetAuditGeoJSON は監査結果をGeoJSONで返すエンドポイント
// GET /geogrid/audits/:id/geojson
func (h *GeoGridHandler) GetAuditGeoJSON(c *gin.Context) {
	audit, ok := h.findAudit(c)
	if !ok {
		return
	}

	data, err := repoImpl.AuditToFeatureCollection(audit).MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "GeoJSONの生成に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// ListAudits は監査結果の一覧を返すエンドポイント
// GET /geogrid/audits?limit=20
func (h *GeoGridHandler) ListAudits(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "limitは1から100の整数で指定してください",
				"details": s,
			})
			return
		}
		limit = n
	}

	summaries, err := h.auditUseCase.ListAudits(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "監査一覧の取得に失敗しました",
			"details": err.Error(),
		})
		return
	}
	if summaries == nil {
		summaries = []model.AuditSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"audits": summaries})
}

func (h *GeoGridHandler) findAudit(c *gin.Context) (*model.GeoGridAudit, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "idが指定されていません",
		})
		return nil, false
	}

	audit, err := h.auditUseCase.GetAudit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "監査結果が見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "監査結果の取得に失敗しました",
				"details": err.Error(),
			})
		}
		return nil, false
	}
	return audit, true
}

// toSnakeCase はGoのフィールド名をJSONのキー名に寄せる
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
