package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wechselplan/config"
	"wechselplan/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	config.DB = db
	require.NoError(t, config.MigrateDB())
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/schedules", GetScheduleHandler)
	router.POST("/api/schedules", CreateScheduleHandler)
	router.GET("/api/schedule/teacher-rotation", GetRotationHandler)
	router.POST("/api/schedule/teacher-rotation", BuildRotationHandler)
	router.POST("/api/schedule/teacher-assignments", SaveAssignmentsHandler)
	router.GET("/api/export/pdf", ExportPDFHandler)
	router.POST("/api/grades", SaveGradesHandler)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedClass(t *testing.T, name string) models.Class {
	t.Helper()
	class := models.Class{Name: name}
	require.NoError(t, config.DB.Create(&class).Error)
	return class
}

func seedStudent(t *testing.T, classID uint, group int, last, first string) models.Student {
	t.Helper()
	student := models.Student{
		FirstName: first, LastName: last,
		Username: fmt.Sprintf("%s.%s", first, last),
		ClassID:  &classID, GroupID: &group,
	}
	require.NoError(t, config.DB.Create(&student).Error)
	return student
}

func seedTeacher(t *testing.T, username string) models.Teacher {
	t.Helper()
	teacher := models.Teacher{FirstName: "T", LastName: username, Username: username}
	require.NoError(t, config.DB.Create(&teacher).Error)
	return teacher
}

func scheduleBody(classID uint, weekday int) gin.H {
	return gin.H{
		"classId":         classID,
		"selectedWeekday": weekday,
		"scheduleData": gin.H{
			"Turnus 1": gin.H{"weeks": []gin.H{{"date": "08.01.24", "week": "KW 2", "isHoliday": false}}},
			"Turnus 2": gin.H{"weeks": []gin.H{{"date": "15.01.24", "week": "KW 3", "isHoliday": false}}},
			"Turnus 3": gin.H{"weeks": []gin.H{{"date": "22.01.24", "week": "KW 4", "isHoliday": false}}},
		},
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	seedClass(t, "1AHITS")

	rec := doJSON(t, router, http.MethodGet, "/api/schedules?classId=1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateScheduleSupersedesPrior(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "2AHITS")

	rec := doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(class.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(class.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Only the latest schedule survives, turns and weeks included.
	var scheduleCount, turnCount int64
	config.DB.Model(&models.Schedule{}).Where("class_id = ?", class.ID).Count(&scheduleCount)
	config.DB.Model(&models.ScheduleTurn{}).Count(&turnCount)
	require.EqualValues(t, 1, scheduleCount)
	require.EqualValues(t, 3, turnCount)

	// Another weekday is its own slot and must not be superseded.
	rec = doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(class.ID, 4))
	require.Equal(t, http.StatusCreated, rec.Code)
	config.DB.Model(&models.Schedule{}).Where("class_id = ?", class.ID).Count(&scheduleCount)
	require.EqualValues(t, 2, scheduleCount)
}

func TestCreateScheduleValidation(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "3AHITS")

	rec := doJSON(t, router, http.MethodPost, "/api/schedules", gin.H{"classId": class.ID, "selectedWeekday": 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(9999, 2))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetScheduleReturnsLegacyShape(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "4AHITS")

	rec := doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(class.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/schedules?classId=%d&weekday=2", class.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ScheduleData map[string]struct {
			Weeks []struct {
				Date string `json:"date"`
			} `json:"weeks"`
		} `json:"scheduleData"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.ScheduleData, 3)
	require.Equal(t, "08.01.24", body.ScheduleData["Turnus 1"].Weeks[0].Date)
}

func TestBuildRotationPersistsMatrix(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "5AHITS")
	seedStudent(t, class.ID, 1, "Auer", "Anna")
	seedStudent(t, class.ID, 2, "Moser", "Eva")
	t1 := seedTeacher(t, "t1")
	t2 := seedTeacher(t, "t2")
	t3 := seedTeacher(t, "t3")

	rec := doJSON(t, router, http.MethodPost, "/api/schedules", scheduleBody(class.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/schedule/teacher-assignments", gin.H{
		"classId": class.ID,
		"period":  models.PeriodAM,
		"assignments": []gin.H{
			{"groupId": 1, "teacherId": t1.ID},
			{"groupId": 2, "teacherId": t2.ID},
			{"groupId": 2, "teacherId": t3.ID},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/schedule/teacher-rotation", gin.H{"classId": class.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rows []models.TeacherRotation
	require.NoError(t, config.DB.Where("class_id = ? AND period = ?", class.ID, models.PeriodAM).
		Order("turn_id, group_id").Find(&rows).Error)
	require.Len(t, rows, 6)

	// 2 groups, 3 teachers: turn0 g1→T1 g2→T2, turn1 g1→T2 g2→T3, turn2 g1→T3 g2→T1.
	expected := []uint{t1.ID, t2.ID, t2.ID, t3.ID, t3.ID, t1.ID}
	for i, row := range rows {
		require.NotNil(t, row.TeacherID)
		require.Equal(t, expected[i], *row.TeacherID)
	}

	// No PM assignments: every PM cell stays unassigned.
	var pmRows []models.TeacherRotation
	require.NoError(t, config.DB.Where("class_id = ? AND period = ?", class.ID, models.PeriodPM).Find(&pmRows).Error)
	require.Len(t, pmRows, 6)
	for _, row := range pmRows {
		require.Nil(t, row.TeacherID)
	}

	// Rebuilding replaces rather than appends.
	rec = doJSON(t, router, http.MethodPost, "/api/schedule/teacher-rotation", gin.H{"classId": class.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var total int64
	config.DB.Model(&models.TeacherRotation{}).Where("class_id = ?", class.ID).Count(&total)
	require.EqualValues(t, 12, total)
}

func TestBuildRotationWithoutSchedule(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "6AHITS")

	rec := doJSON(t, router, http.MethodPost, "/api/schedule/teacher-rotation", gin.H{"classId": class.ID})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPDFWithoutSchedule(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "7AHITS")

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/export/pdf?classId=%d", class.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveGradesUpsertAndValidation(t *testing.T) {
	setupTestDB(t)
	router := testRouter()
	class := seedClass(t, "8AHITS")
	student := seedStudent(t, class.ID, 1, "Auer", "Anna")
	teacher := seedTeacher(t, "grader")

	body := gin.H{
		"classId":   class.ID,
		"teacherId": teacher.ID,
		"semester":  models.SemesterFirst,
		"grades":    []gin.H{{"studentId": student.ID, "grade": 2.5}},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/grades", body)
	require.Equal(t, http.StatusOK, rec.Code)

	body["grades"] = []gin.H{{"studentId": student.ID, "grade": 1.5}}
	rec = doJSON(t, router, http.MethodPost, "/api/grades", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var grades []models.Grade
	require.NoError(t, config.DB.Where("class_id = ?", class.ID).Find(&grades).Error)
	require.Len(t, grades, 1)
	require.NotNil(t, grades[0].Grade)
	require.Equal(t, 1.5, *grades[0].Grade)

	// Off-scale values are rejected.
	body["grades"] = []gin.H{{"studentId": student.ID, "grade": 2.25}}
	rec = doJSON(t, router, http.MethodPost, "/api/grades", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body["semester"] = "third"
	body["grades"] = []gin.H{{"studentId": student.ID, "grade": 2.0}}
	rec = doJSON(t, router, http.MethodPost, "/api/grades", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
