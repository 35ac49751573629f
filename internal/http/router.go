package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes 登录/注销/当前用户
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/api/v1/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
	r.Handle("/auth/api/v1/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
	r.Handle("/auth/api/v1/me", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Me(w, req)
	})
}

// RegisterSampleRoutes 样本注册、查询、状态流转、统计、导出
func (r *Router) RegisterSampleRoutes(h *SampleHandler) {
	r.Handle("/api/v1/samples", h.Collection)
	r.Handle("/api/v1/samples/", h.Subtree)
}

// RegisterLabRoutes 采集实验室管理
func (r *Router) RegisterLabRoutes(h *LabHandler) {
	r.Handle("/api/v1/labs", h.Collection)
	r.Handle("/api/v1/labs/", h.Subtree)
}

// RegisterUserRoutes 账号管理
func (r *Router) RegisterUserRoutes(h *UserHandler) {
	r.Handle("/api/v1/users", h.Collection)
	r.Handle("/api/v1/users/", h.Subtree)
}
