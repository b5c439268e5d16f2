package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/controllers"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Profile    *controllers.ProfileController
	Dashboard  *controllers.DashboardController
	Department *controllers.DepartmentController
	Teacher    *controllers.TeacherController
	Student    *controllers.StudentController
	Course     *controllers.CourseController
}

// SetupRouter configures all application routes. Authenticated routes only establish the
// principal; role checks happen in the services against the freshly resolved account.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register/student", c.Auth.RegisterStudent)
		auth.POST("/register/teacher", c.Auth.RegisterTeacher)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)
		authenticated.GET("/dashboard", c.Dashboard.GetDashboard)

		profile := authenticated.Group("/profile")
		{
			profile.GET("", c.Profile.GetProfile)
			profile.PUT("/student", c.Profile.SaveStudentProfile)
			profile.PUT("/teacher", c.Profile.SaveTeacherProfile)
		}

		departments := authenticated.Group("/departments")
		{
			departments.GET("", c.Department.GetAllDepartments)
			departments.GET("/:id", c.Department.GetDepartmentByID)
			departments.POST("", c.Department.CreateDepartment)
			departments.PUT("/:id", c.Department.UpdateDepartment)
			departments.DELETE("/:id", c.Department.DeleteDepartment)
		}

		teachers := authenticated.Group("/teachers")
		{
			teachers.GET("", c.Teacher.GetAllTeachers)
			teachers.GET("/:id", c.Teacher.GetTeacherByID)
			teachers.POST("", c.Teacher.CreateTeacher)
			teachers.PUT("/:id", c.Teacher.UpdateTeacher)
			teachers.DELETE("/:id", c.Teacher.DeleteTeacher)
		}

		students := authenticated.Group("/students")
		{
			students.GET("", c.Student.GetAllStudents)
			students.GET("/:id", c.Student.GetStudentByID)
			students.POST("", c.Student.CreateStudent)
			students.PUT("/:id", c.Student.UpdateStudent)
			students.DELETE("/:id", c.Student.DeleteStudent)
		}

		courses := authenticated.Group("/courses")
		{
			courses.GET("", c.Course.GetAllCourses)
			courses.GET("/:id", c.Course.GetCourseByID)
			courses.POST("", c.Course.CreateCourse)
			courses.PUT("/:id", c.Course.UpdateCourse)
			courses.DELETE("/:id", c.Course.DeleteCourse)
			courses.POST("/:id/students/:studentId", c.Course.EnrollStudent)
			courses.DELETE("/:id/students/:studentId", c.Course.UnenrollStudent)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
