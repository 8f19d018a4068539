package middlewarectx

import (
	"net/url"
	"slices"

	"github.com/caseconnect/casetracker/internal/models"
)

// Decision — результат проверки доступа к маршруту.
// Ровно одно из полей описывает исход: показать заглушку, перенаправить
// или пропустить запрос дальше.
type Decision struct {
	Allow           bool
	ShowPlaceholder bool
	RedirectTo      string
}

// Decide — чистая функция принятия решения о доступе к маршруту.
// Пока сессия восстанавливается (loading), решение не принимается.
// Неаутентифицированный пользователь перенаправляется на страницу входа
// с сохранением исходного пути. При несовпадении роли возврат идёт на
// /login без параметра redirect: путь назначения теряется, поведение
// сохранено намеренно.
func Decide(user *models.AuthUser, loading bool, allowedRoles []string, requestedPath string) Decision {
	if loading {
		return Decision{ShowPlaceholder: true}
	}
	if user == nil {
		return Decision{RedirectTo: "/login?redirect=" + url.QueryEscape(requestedPath)}
	}
	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, user.Role) {
		return Decision{RedirectTo: "/login"}
	}
	return Decision{Allow: true}
}
