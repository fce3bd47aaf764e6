package middleware

import (
	"github.com/P-ZeN/be-out-apps-sub001/internal/moderation"
	"github.com/gin-gonic/gin"
)

func WorkflowMiddleware(workflow *moderation.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("moderation_workflow", workflow)
		c.Next()
	}
}

func GetWorkflow(c *gin.Context) *moderation.Workflow {
	workflow, exists := c.Get("moderation_workflow")
	if !exists {
		return nil
	}
	return workflow.(*moderation.Workflow)
}
