package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/internal/plan"
	"wechselplan/models"
)

var weekdayNames = [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// ExportInput selects which plan to export.
type ExportInput struct {
	ClassID uint `json:"classId" binding:"required"`
	Weekday *int `json:"weekday"`
}

// reportForClass loads everything the assembler needs. A missing class or a
// class without a schedule is a 404, never an empty document.
func reportForClass(classID uint, weekday *int) (*plan.ReportData, int, error) {
	var class models.Class
	if err := config.DB.First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("Class not found")
		}
		return nil, http.StatusInternalServerError, err
	}

	schedule, err := findSchedule(classID, weekday)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, http.StatusNotFound, errors.New("Class has no schedule")
	}
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	var students []models.Student
	if err := config.DB.Where("class_id = ?", classID).Find(&students).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	var assignments []models.TeacherAssignment
	if err := config.DB.Where("class_id = ?", classID).
		Preload("Teacher").Preload("Subject").Preload("LearningContent").Preload("Room").
		Order("period, group_id, id").Find(&assignments).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	var rotations []models.TeacherRotation
	if err := config.DB.Where("class_id = ?", classID).Preload("Teacher").Find(&rotations).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}

	report := plan.BuildReport(class, students, assignments, rotations, schedule.Turns, schedule.SelectedWeekday, schedule.AdditionalInfo)
	return &report, http.StatusOK, nil
}

// ExportExcelHandler writes the Wechselplan as an XLSX download.
func ExportExcelHandler(c *gin.Context) {
	var input ExportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classId is required"})
		return
	}

	report, status, err := reportForClass(input.ClassID, input.Weekday)
	if err != nil {
		respondExportError(c, status, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Wechselplan"
	index, _ := f.NewSheet(sheet)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Wechselplan %s - %s", report.ClassName, weekdayNames[report.Weekday]))

	// Group headers with their palette color, rosters below.
	row := 3
	for i, group := range report.Groups {
		col := i + 1
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(sheet, cell, fmt.Sprintf("Gruppe %d", group.ID))
		if style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{group.Color}, Pattern: 1},
		}); err == nil {
			f.SetCellStyle(sheet, cell, cell, style)
		}
		for j, student := range group.Students {
			cell, _ := excelize.CoordinatesToCellName(col, row+1+j)
			f.SetCellValue(sheet, cell, student.LastName+" "+student.FirstName)
		}
	}
	row += 2 + maxRosterLen(report.Groups)

	// Teacher rows per period.
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, periodLabel(period))
		row++
		for _, tr := range report.TeacherRows {
			if tr.Period != period {
				continue
			}
			values := []any{fmt.Sprintf("Gruppe %d", tr.GroupID), tr.TeacherName, tr.Subject, tr.Room, tr.LearningContent}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		row++
	}

	// Turn date columns.
	for i, turn := range report.Turns {
		col := i + 1
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(sheet, cell, turn.Name)
		for j, date := range turn.Dates {
			cell, _ := excelize.CoordinatesToCellName(col, row+1+j)
			f.SetCellValue(sheet, cell, date)
		}
	}
	row += 2 + maxDatesLen(report.Turns)

	// Rotation matrix, one block per period.
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, periodLabel(period))
		row++
		for _, rotRow := range report.Rotation[period] {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(sheet, cell, rotRow.TurnName)
			for i, teacher := range rotRow.Teachers {
				cell, _ := excelize.CoordinatesToCellName(i+2, row)
				f.SetCellValue(sheet, cell, teacher)
			}
			row++
		}
		row++
	}

	fileName := fmt.Sprintf("wechselplan_%s_%s.xlsx", report.ClassName, time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write Excel export", "error", err)
	}
}

// ExportPDFHandler writes the Wechselplan as a PDF download.
func ExportPDFHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}
	weekday, ok := queryWeekday(c)
	if !ok {
		return
	}

	report, status, err := reportForClass(classID, weekday)
	if err != nil {
		respondExportError(c, status, err)
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Wechselplan %s - %s", report.ClassName, weekdayNames[report.Weekday]), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Group roster columns, header cells filled with the group color.
	colWidth := 270.0 / float64(maxInt(len(report.Groups), 1))
	pdf.SetFont("Helvetica", "B", 11)
	for _, group := range report.Groups {
		r, g, b := hexToRGB(group.Color)
		pdf.SetFillColor(r, g, b)
		pdf.CellFormat(colWidth, 8, fmt.Sprintf("Gruppe %d", group.ID), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for i := 0; i < maxRosterLen(report.Groups); i++ {
		for _, group := range report.Groups {
			name := ""
			if i < len(group.Students) {
				name = group.Students[i].LastName + " " + group.Students[i].FirstName
			}
			pdf.CellFormat(colWidth, 7, name, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Teacher rows.
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, periodLabel(period), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, tr := range report.TeacherRows {
			if tr.Period != period {
				continue
			}
			pdf.CellFormat(30, 6, fmt.Sprintf("Gruppe %d", tr.GroupID), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, tr.TeacherName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, tr.Subject, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, tr.Room, "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 6, tr.LearningContent, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	// Turn dates and the rotation matrix.
	turnWidth := 270.0 / float64(maxInt(len(report.Turns), 1))
	pdf.SetFont("Helvetica", "B", 11)
	for _, turn := range report.Turns {
		pdf.CellFormat(turnWidth, 7, turn.Name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for i := 0; i < maxDatesLen(report.Turns); i++ {
		for _, turn := range report.Turns {
			date := ""
			if i < len(turn.Dates) {
				date = turn.Dates[i]
			}
			pdf.CellFormat(turnWidth, 6, date, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, periodLabel(period), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, rotRow := range report.Rotation[period] {
			pdf.CellFormat(40, 6, rotRow.TurnName, "1", 0, "L", false, 0, "")
			for _, teacher := range rotRow.Teachers {
				pdf.CellFormat(colWidth, 6, teacher, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(2)
	}

	sendPDF(c, pdf, fmt.Sprintf("wechselplan_%s.pdf", report.ClassName))
}

// NotensammlerPDFHandler writes the grade collection sheet for one teacher,
// class and semester.
func NotensammlerPDFHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}
	teacherID, ok := queryUint(c, "teacherId")
	if !ok {
		return
	}
	semester := c.Query("semester")
	if semester != models.SemesterFirst && semester != models.SemesterSecond {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Semester must be first or second"})
		return
	}

	var class models.Class
	if err := config.DB.First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	var teacher models.Teacher
	if err := config.DB.First(&teacher, teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var students []models.Student
	if err := config.DB.Where("class_id = ?", classID).
		Order("last_name, first_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
		return
	}
	var grades []models.Grade
	if err := config.DB.Where("class_id = ? AND teacher_id = ? AND semester = ?", classID, teacherID, semester).
		Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load grades"})
		return
	}
	gradeByStudent := make(map[uint]*float64, len(grades))
	for _, g := range grades {
		gradeByStudent[g.StudentID] = g.Grade
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Notensammler %s - %s", class.Name, teacher.FullName()), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, semesterLabel(semester), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Gruppe", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Note", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, student := range students {
		pdf.CellFormat(100, 7, student.LastName+" "+student.FirstName, "1", 0, "L", false, 0, "")
		group := ""
		if student.GroupID != nil {
			group = strconv.Itoa(*student.GroupID)
		}
		pdf.CellFormat(40, 7, group, "1", 0, "C", false, 0, "")
		mark := ""
		if g, found := gradeByStudent[student.ID]; found && g != nil {
			mark = strconv.FormatFloat(*g, 'f', -1, 64)
		}
		pdf.CellFormat(40, 7, mark, "1", 1, "C", false, 0, "")
	}

	sendPDF(c, pdf, fmt.Sprintf("notensammler_%s_%s.pdf", class.Name, semester))
}

func sendPDF(c *gin.Context, pdf *gofpdf.Fpdf, fileName string) {
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := pdf.Output(c.Writer); err != nil {
		slog.Error("Failed to write PDF export", "error", err)
	}
}

func respondExportError(c *gin.Context, status int, err error) {
	if status == http.StatusInternalServerError {
		slog.Error("Export failed", "error", err)
		c.JSON(status, gin.H{"error": "Export failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func periodLabel(period string) string {
	if period == models.PeriodAM {
		return "Vormittag"
	}
	return "Nachmittag"
}

func semesterLabel(semester string) string {
	if semester == models.SemesterFirst {
		return "1. Semester"
	}
	return "2. Semester"
}

func maxRosterLen(groups []plan.ReportGroup) int {
	longest := 0
	for _, g := range groups {
		if len(g.Students) > longest {
			longest = len(g.Students)
		}
	}
	return longest
}

func maxDatesLen(turns []plan.TurnColumn) int {
	longest := 0
	for _, t := range turns {
		if len(t.Dates) > longest {
			longest = len(t.Dates)
		}
	}
	return longest
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func hexToRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r, err1 := strconv.ParseInt(hex[1:3], 16, 0)
	g, err2 := strconv.ParseInt(hex[3:5], 16, 0)
	b, err3 := strconv.ParseInt(hex[5:7], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		return 255, 255, 255
	}
	return int(r), int(g), int(b)
}
