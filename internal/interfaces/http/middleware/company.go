package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/infrastructure/logger"
	"github.com/ledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CompanyResolver answers the lookups CompanyScope needs
type CompanyResolver interface {
	CompanyExists(ctx context.Context, id uuid.UUID) (bool, error)
	DefaultCompanyID(ctx context.Context) (uuid.UUID, error)
}

// CompanyScope decides which company a request operates on: the X-Company-ID
// header, else the configured default, else the oldest company. The result is
// stored on the gin context (GetCompanyID) and on the request logger.
func CompanyScope(resolver CompanyResolver, configured uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID := GetRequestID(c)

		var companyID uuid.UUID
		switch header := c.GetHeader(HeaderCompanyID); {
		case header != "":
			id, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest, HeaderCompanyID+" must be a UUID", requestID))
				return
			}
			companyID = id
		case configured != uuid.Nil:
			companyID = configured
		default:
			id, err := resolver.DefaultCompanyID(ctx)
			if err != nil {
				status, resp := dto.ErrorResponse(err, requestID)
				c.AbortWithStatusJSON(status, resp)
				return
			}
			companyID = id
		}

		exists, err := resolver.CompanyExists(ctx, companyID)
		if err != nil {
			status, resp := dto.ErrorResponse(err, requestID)
			c.AbortWithStatusJSON(status, resp)
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "company "+companyID.String()+" not found", requestID))
			return
		}

		c.Set(logger.GinCompanyIDKey, companyID.String())
		reqCtx, _ := logger.WithCompanyID(ctx, logger.FromContext(ctx), companyID.String())
		c.Request = c.Request.WithContext(reqCtx)

		logger.FromContext(reqCtx).Debug("company scope resolved", zap.String("company_id", companyID.String()))
		c.Next()
	}
}

// GetCompanyID returns the company chosen by CompanyScope, or uuid.Nil
func GetCompanyID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(logger.GinCompanyIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}
