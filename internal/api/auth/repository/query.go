package authRepository

const (
	queryCreateUser = `
		INSERT INTO users (id, email, institution_name, password, role, created_at)
		VALUES (:id, :email, :institution_name, :password, :role, :created_at)
	`

	queryGetByID = `
		SELECT id, email, institution_name, password, role, created_at, updated_at
		FROM users
		WHERE id = :id
	`

	queryGetByEmail = `
		SELECT id, email, institution_name, password, role, created_at, updated_at
		FROM users
		WHERE email = :email
	`
)
