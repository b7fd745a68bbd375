package handler

import (
	"github.com/gin-gonic/gin"

	appmember "github.com/xiebiao/lodging/internal/application/member"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/interface/http/dto"
	"github.com/xiebiao/lodging/internal/interface/http/middleware"
	"github.com/xiebiao/lodging/pkg/response"
)

// MemberHandler 会员HTTP处理器
// 职责：
// 1. 参数绑定与验证（binding tag）
// 2. 调用应用层UseCase
// 3. 统一响应格式
type MemberHandler struct {
	registerUseCase  *appmember.RegisterUseCase
	loginUseCase     *appmember.LoginUseCase
	logoutUseCase    *appmember.LogoutUseCase
	profileUseCase   *appmember.GetProfileUseCase
	setStatusUseCase *appmember.SetStatusUseCase
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(
	registerUseCase *appmember.RegisterUseCase,
	loginUseCase *appmember.LoginUseCase,
	logoutUseCase *appmember.LogoutUseCase,
	profileUseCase *appmember.GetProfileUseCase,
	setStatusUseCase *appmember.SetStatusUseCase,
) *MemberHandler {
	return &MemberHandler{
		registerUseCase:  registerUseCase,
		loginUseCase:     loginUseCase,
		logoutUseCase:    logoutUseCase,
		profileUseCase:   profileUseCase,
		setStatusUseCase: setStatusUseCase,
	}
}

// Register 会员注册
// @Summary      会员注册
// @Description  注册住客或酒店经营者账号，管理员账号不能自助注册
// @Tags         会员模块
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appmember.MemberInfo} "注册成功"
// @Failure      40003 {object} response.Response "邮箱已存在"
// @Failure      40005 {object} response.Response "密码强度不足"
// @Router       /members/register [post]
func (h *MemberHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.registerUseCase.Execute(c.Request.Context(), appmember.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		Role:     member.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Login 会员登录
// @Summary      会员登录
// @Description  邮箱密码登录，返回Access Token和Refresh Token
// @Tags         会员模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appmember.LoginResponse} "登录成功"
// @Failure      40103 {object} response.Response "密码错误"
// @Failure      40105 {object} response.Response "会员已停用"
// @Router       /members/login [post]
func (h *MemberHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.loginUseCase.Execute(c.Request.Context(), appmember.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Logout 登出，当前Access Token加入黑名单
// @Summary      会员登出
// @Tags         会员模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /members/logout [post]
func (h *MemberHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Profile 当前会员信息
// @Summary      当前会员信息
// @Tags         会员模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appmember.MemberInfo}
// @Router       /members/me [get]
func (h *MemberHandler) Profile(c *gin.Context) {
	resp, err := h.profileUseCase.Execute(c.Request.Context(), middleware.MustGetMemberID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// SetStatus 管理员停用或启用会员
// @Summary      停用/启用会员
// @Tags         管理模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "会员ID"
// @Param        request body dto.SetMemberStatusRequest true "是否停用"
// @Success      200 {object} response.Response{data=appmember.MemberInfo}
// @Failure      40104 {object} response.Response "无权限访问"
// @Router       /admin/members/{id}/status [put]
func (h *MemberHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SetMemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	resp, err := h.setStatusUseCase.Execute(c.Request.Context(), middleware.GetActor(c), id, *req.Suspend)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
