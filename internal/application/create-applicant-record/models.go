// internal/application/create-applicant-record/models.go
package createapplicantrecord

type Output struct {
	ApplicantID int64  `json:"applicantId"`
	CreatedAt   string `json:"createdAt"` // ISO 8601
}

const (
	insertApplicantSQL = `
		INSERT INTO ApplicantTable (
			full_name, contact_number, email, current_address, highest_education
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	insertEmploymentSQL = `
		INSERT INTO EmploymentTable (
			applicant_id, date_available, desired_position, desired_salary,
			authorized_to_work, relatives_work_for_company, relatives_explanation
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
)
