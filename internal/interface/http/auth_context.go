package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

const principalKey = "auth_principal"

func setPrincipal(c *gin.Context, p records.Principal) {
	c.Set(principalKey, p)
}

func getPrincipal(c *gin.Context) (records.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return records.Principal{}, false
	}
	p, ok := value.(records.Principal)
	return p, ok
}
