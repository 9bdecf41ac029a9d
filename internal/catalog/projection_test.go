package catalog

import (
	"testing"

	"coursely/internal/models"
)

func createCourse() *models.Course {
	return &models.Course{
		ID:               "course-1",
		Title:            "Test Course",
		IsPublished:      true,
		EnrolledStudents: []string{"u1", "u2"},
		Content: []models.Chapter{
			{
				ID:    "ch01",
				Order: 1,
				Content: []models.Lecture{
					{ID: "lec01", URL: "https://example.com/lec01.mp4", IsPreviewFree: true},
					{ID: "lec02", URL: "https://example.com/lec02.mp4", IsPreviewFree: false},
				},
			},
		},
	}
}

func TestProjectForViewerNotEnrolled(t *testing.T) {
	course := createCourse()
	projected := ProjectForViewer(course, false)

	if projected.Content[0].Content[0].URL == "" {
		t.Error("Expected preview-free lecture locator to be intact for a non-enrolled viewer")
	}
	if projected.Content[0].Content[1].URL != "" {
		t.Error("Expected restricted lecture locator to be blanked for a non-enrolled viewer")
	}
	if projected.EnrolledStudents != nil {
		t.Error("Expected enrolled-student list to be stripped from the detail projection")
	}
}

func TestProjectForViewerEnrolled(t *testing.T) {
	course := createCourse()
	projected := ProjectForViewer(course, true)

	for _, lecture := range projected.Content[0].Content {
		if lecture.URL == "" {
			t.Errorf("Expected lecture %v locator to be intact for an enrolled viewer", lecture.ID)
		}
	}
}

func TestProjectForViewerDoesNotMutateCourse(t *testing.T) {
	course := createCourse()
	ProjectForViewer(course, false)

	if course.Content[0].Content[1].URL != "https://example.com/lec02.mp4" {
		t.Error("Expected projection to leave the stored course unmodified")
	}
	if len(course.EnrolledStudents) != 2 {
		t.Error("Expected projection to leave the enrolled-student list unmodified")
	}
}

func TestProjectForListing(t *testing.T) {
	course := createCourse()
	projected := ProjectForListing(course)

	if projected.Content != nil {
		t.Error("Expected content listing to be stripped from the catalog projection")
	}
	if projected.EnrolledStudents != nil {
		t.Error("Expected enrolled-student list to be stripped from the catalog projection")
	}
	if course.Content == nil {
		t.Error("Expected projection to leave the stored course unmodified")
	}
}
