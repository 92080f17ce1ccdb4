package response

var (
	ErrInvalidRequest  = newError(40000, "Solicitud inválida")
	ErrTokenInvalid    = newError(40100, "Token inválido o expirado")
	ErrUnauthorized    = newError(40101, "No autenticado")
	ErrInvalidPassword = newError(40102, "Credenciales inválidas")
	ErrForbidden       = newError(40300, "No tiene permisos para realizar esta acción")
	ErrNotFound        = newError(40400, "Recurso no encontrado")
	ErrAlreadyExists   = newError(40900, "El recurso ya existe")
	ErrDatabase        = newError(50000, "Error de base de datos")
	ErrServerInternal  = newError(50001, "Error interno del servidor")
	ErrStorage         = newError(50002, "Error del servicio de almacenamiento")
)

// 报名相关
var (
	ErrDeadlinePassed     = newError(40010, "La fecha límite de inscripción ya pasó")
	ErrActivityConcluded  = newError(40011, "La actividad ya finalizó")
	ErrAlreadyEnrolled    = newError(40012, "El estudiante ya está inscrito en esta actividad.")
	ErrReferenceNotFound  = newError(40013, "Referencia no encontrada")
	ErrEnrollmentConflict = newError(40901, "El estudiante ya está inscrito en esta actividad.")
)
