package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// TodoHandler serves /todo. Every route is owner-scoped.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List handles GET /todo.
//
// @Summary      List own todos
// @Tags         todo
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Terms matched against completed (true/false)"
// @Success      200     {array}   todoResponse
// @Failure      401     {object}  errorResponse
// @Router       /todo [get]
func (h *TodoHandler) List(c echo.Context) error {
	todos, err := h.service.ListTodos(c.Request().Context(), caller(c), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponses(todos))
}

// Create handles POST /todo.
//
// @Summary      Create a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      todoCreateRequest  true  "Todo"
// @Success      201   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /todo [post]
func (h *TodoHandler) Create(c echo.Context) error {
	var req todoCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	todo, err := h.service.CreateTodo(c.Request().Context(), caller(c), req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// Get handles GET /todo/:id.
//
// @Summary      Get a todo
// @Tags         todo
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  todoResponse
// @Failure      404  {object}  errorResponse
// @Router       /todo/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	todo, err := h.service.GetTodo(c.Request().Context(), caller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Replace handles PUT /todo/:id.
//
// @Summary      Replace a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Todo id"
// @Param        body  body      todoReplaceRequest  true  "Todo"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /todo/{id} [put]
func (h *TodoHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req todoReplaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	todo, err := h.service.UpdateTodo(c.Request().Context(), caller(c), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Update handles PATCH /todo/:id.
//
// @Summary      Partially update a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Todo id"
// @Param        body  body      todoPatchRequest  true  "Fields to change"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /todo/{id} [patch]
func (h *TodoHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req todoPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	todo, err := h.service.UpdateTodo(c.Request().Context(), caller(c), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Delete handles DELETE /todo/:id.
//
// @Summary      Delete a todo
// @Tags         todo
// @Security     BearerAuth
// @Param        id   path  int  true  "Todo id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /todo/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTodo(c.Request().Context(), caller(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
