/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"bimhub-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 模型校验
	r.Route("/validation", func(r chi.Router) {
		validationController := controllers.NewValidationController()
		r.Post("/run", validationController.RunValidation)
	})

	// BEP规则库管理
	bepController := controllers.NewBEPController()
	r.Route("/bep", func(r chi.Router) {
		// 规则集管理
		r.Route("/rulesets", func(r chi.Router) {
			r.Post("/", bepController.CreateRuleSet)
			r.Get("/", bepController.ListRuleSets)
			r.Get("/{id}", bepController.GetRuleSet)
			r.Put("/{id}", bepController.UpdateRuleSet)
			r.Delete("/{id}", bepController.DeleteRuleSet)
			r.Post("/{id}/activate", bepController.ActivateRuleSet)

			// 规则集下的规则定义
			r.Post("/{id}/rules", bepController.CreateRule)
			r.Get("/{id}/rules", bepController.ListRules)
			r.Post("/{id}/required-psets", bepController.CreateRequiredPset)
			r.Get("/{id}/required-psets", bepController.ListRequiredPsets)
			r.Post("/{id}/naming-conventions", bepController.CreateNamingConvention)
			r.Get("/{id}/naming-conventions", bepController.ListNamingConventions)
		})

		// 规则定义直接操作
		r.Put("/rules/{rule_id}", bepController.UpdateRule)
		r.Delete("/rules/{rule_id}", bepController.DeleteRule)
		r.Delete("/required-psets/{pset_id}", bepController.DeleteRequiredPset)
		r.Delete("/naming-conventions/{convention_id}", bepController.DeleteNamingConvention)
	})

	// 项目与模型管理
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", bepController.CreateProject)
	})
	r.Route("/models", func(r chi.Router) {
		r.Post("/", bepController.CreateModel)
		r.Get("/", bepController.ListModels)
	})
}
