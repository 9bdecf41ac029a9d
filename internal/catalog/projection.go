// Package catalog provides publish-safe, access-aware read views of courses.
package catalog

import "coursely/internal/models"

// ProjectForViewer returns a copy of the course suitable for the single
// course detail page. The chapter and lecture structure is retained, but
// every lecture's content locator is blanked unless the lecture is a free
// preview or the viewer is enrolled. The stored course is never mutated.
func ProjectForViewer(course *models.Course, viewerEnrolled bool) *models.Course {
	projected := *course
	projected.EnrolledStudents = nil

	projected.Content = make([]models.Chapter, len(course.Content))
	for i, chapter := range course.Content {
		projectedChapter := chapter
		projectedChapter.Content = make([]models.Lecture, len(chapter.Content))
		for j, lecture := range chapter.Content {
			if !lecture.IsPreviewFree && !viewerEnrolled {
				lecture.URL = ""
			}
			projectedChapter.Content[j] = lecture
		}
		projected.Content[i] = projectedChapter
	}

	return &projected
}

// ProjectForListing returns a copy of the course for the public catalog
// listing, with the full content listing and the enrolled-student list
// stripped.
func ProjectForListing(course *models.Course) *models.Course {
	projected := *course
	projected.Content = nil
	projected.EnrolledStudents = nil
	return &projected
}
