package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	"github.com/melevanoronha/admin-console/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase  *authUC.LoginUseCase
	logoutUseCase *authUC.LogoutUseCase
	session       *authUC.Session
	nav           *LoginNavigator
}

func NewAuthHandler(loginUC *authUC.LoginUseCase, logoutUC *authUC.LogoutUseCase, session *authUC.Session, nav *LoginNavigator) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		logoutUseCase: logoutUC,
		session:       session,
		nav:           nav,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input authUC.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.NewHTTP(http.StatusBadRequest, "invalid request data"))
		return
	}

	if err := h.loginUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	h.nav.TakeRedirect()
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false, "redirect": LoginRoute})
}

func (h *AuthHandler) Session(c *gin.Context) {
	body := gin.H{"authenticated": h.session.Authenticated()}
	if !h.session.Authenticated() {
		body["redirect"] = LoginRoute
	}
	c.JSON(http.StatusOK, body)
}
